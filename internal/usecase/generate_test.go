package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/generator"
	"github.com/celestialdb/codegen/internal/tsast"
	"github.com/celestialdb/codegen/internal/usecase"
)

// MockSchemaFetcher is a mock implementation of the SchemaFetcher interface.
type MockSchemaFetcher struct {
	mock.Mock
}

func (m *MockSchemaFetcher) Fetch(ctx context.Context, src string) (domain.APISchema, error) {
	args := m.Called(ctx, src)
	return args.Get(0).(domain.APISchema), args.Error(1)
}

// MockSchemaResolver is a mock implementation of the SchemaResolver interface.
type MockSchemaResolver struct {
	mock.Mock
}

func (m *MockSchemaResolver) Resolve(ctx context.Context, schema domain.APISchema, opts domain.ResolveOptions) (*domain.APIDocument, error) {
	args := m.Called(ctx, schema, opts)
	doc := args.Get(0)
	if doc == nil {
		return nil, args.Error(1)
	}
	return doc.(*domain.APIDocument), args.Error(1)
}

// MockOutputSink is a mock implementation of the OutputSink interface.
type MockOutputSink struct {
	mock.Mock
}

func (m *MockOutputSink) WriteFile(ctx context.Context, path string, content []byte) error {
	args := m.Called(ctx, path, content)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func tasksDocument() *domain.APIDocument {
	return &domain.APIDocument{
		Title:   "Tasks",
		BaseURL: "https://api.example.com",
		Operations: []domain.OperationDefinition{
			{
				Verb:        "get",
				Path:        "/tasks",
				Responses:   []domain.Response{{Code: "200", JSON: true, Type: &tsast.ArrayOf{Elem: tsast.Ref("Task")}}},
				ReturnsJSON: true,
				Extensions:  domain.Extensions{Grouping: "tasks", IndexEndpoint: true},
			},
			{
				Verb: "post",
				Path: "/tasks",
				RequestBody: &domain.RequestBody{
					Required:    true,
					ContentType: "application/json",
					RefName:     "Task",
					TypeName:    "Task",
					Type:        tsast.Ref("Task"),
				},
				Responses:   []domain.Response{{Code: "201", JSON: true, Type: tsast.Ref("Task")}},
				ReturnsJSON: true,
				Extensions:  domain.Extensions{Grouping: "tasks"},
			},
		},
		Declarations: []domain.Declaration{{Name: "Task", Stmt: &tsast.TypeAlias{
			Export: true,
			Name:   "Task",
			Type:   &tsast.TypeLit{Members: []tsast.PropertySignature{{Name: "id", Type: tsast.Number}}},
		}}},
	}
}

func newUseCase(fetcher *MockSchemaFetcher, resolver *MockSchemaResolver) *usecase.GenerateUseCase {
	logger := newTestLogger()
	return usecase.NewGenerateUseCase(
		map[domain.SchemaType]usecase.SchemaFetcher{domain.SchemaTypeOpenAPI: fetcher},
		resolver,
		generator.New(logger),
		logger,
	)
}

func filePaths(files []domain.GeneratedFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func TestGenerateUseCase_Generate(t *testing.T) {
	ctx := context.Background()
	source := "openapi.yaml"
	schema := domain.APISchema{Source: source, Type: domain.SchemaTypeOpenAPI, ParsedData: "parsed"}

	fetchErr := errors.New("fetch failed")
	resolveErr := errors.New("resolve failed")

	tests := []struct {
		name          string
		source        string
		opts          domain.GenerationOptions
		mockSetup     func(*MockSchemaFetcher, *MockSchemaResolver)
		wantPaths     []string
		wantErrIs     error
		expectErrText string
	}{
		{
			name: "Success - every grouping rendered",
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {
				f.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
				r.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(tasksDocument(), nil).Once()
			},
			source:    source,
			wantPaths: []string{"tasksApiSlice.ts", "cache.ts", "store.ts", "index.ts"},
		},
		{
			name: "Success - resolve options are forwarded",
			opts: domain.GenerationOptions{Resolve: domain.ResolveOptions{UseEnumType: true}},
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {
				f.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
				r.On("Resolve", mock.Anything, schema, domain.ResolveOptions{UseEnumType: true}).Return(tasksDocument(), nil).Once()
			},
			source:    source,
			wantPaths: []string{"tasksApiSlice.ts", "cache.ts", "store.ts", "index.ts"},
		},
		{
			name:      "Failure - no source",
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {},
			source:    "",
			wantErrIs: usecase.ErrNoSource,
		},
		{
			name:      "Failure - no fetcher for github sources",
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {},
			source:    "github://owner/repo/openapi.yaml",
			wantErrIs: usecase.ErrNoFetcher,
		},
		{
			name: "Failure - fetch error",
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {
				f.On("Fetch", mock.Anything, source).Return(domain.APISchema{}, fetchErr).Once()
			},
			source:        source,
			wantErrIs:     fetchErr,
			expectErrText: "failed to fetch schema from openapi.yaml: fetch failed",
		},
		{
			name: "Failure - resolve error",
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {
				f.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
				r.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(nil, resolveErr).Once()
			},
			source:    source,
			wantErrIs: resolveErr,
		},
		{
			name: "Failure - unknown grouping",
			opts: domain.GenerationOptions{Groupings: []string{"projects"}},
			mockSetup: func(f *MockSchemaFetcher, r *MockSchemaResolver) {
				f.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
				r.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(tasksDocument(), nil).Once()
			},
			source:    source,
			wantErrIs: domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockSchemaFetcher)
			resolver := new(MockSchemaResolver)
			tt.mockSetup(fetcher, resolver)

			files, err := newUseCase(fetcher, resolver).Generate(ctx, tt.source, tt.opts)

			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				if tt.expectErrText != "" {
					assert.EqualError(t, err, tt.expectErrText)
				}
				assert.Nil(t, files)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPaths, filePaths(files))
				for _, f := range files {
					assert.NotEmpty(t, f.Content, f.Path)
				}
			}
			fetcher.AssertExpectations(t)
			resolver.AssertExpectations(t)
		})
	}
}

func TestGenerateUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	source := "openapi.yaml"
	schema := domain.APISchema{Source: source, Type: domain.SchemaTypeOpenAPI}

	t.Run("writes every file", func(t *testing.T) {
		fetcher := new(MockSchemaFetcher)
		resolver := new(MockSchemaResolver)
		sink := new(MockOutputSink)
		fetcher.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
		resolver.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(tasksDocument(), nil).Once()
		sink.On("WriteFile", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).Return(nil).Times(4)

		files, err := newUseCase(fetcher, resolver).Execute(ctx, source, domain.GenerationOptions{}, sink)
		require.NoError(t, err)
		assert.Len(t, files, 4)
		sink.AssertExpectations(t)

		slice := string(files[0].Content)
		assert.True(t, strings.HasPrefix(slice, "import "), slice)
		assert.Contains(t, slice, "export const tasksApiSlice = createApi({")
	})

	t.Run("nothing is written when generation fails", func(t *testing.T) {
		fetcher := new(MockSchemaFetcher)
		resolver := new(MockSchemaResolver)
		sink := new(MockOutputSink)
		doc := tasksDocument()
		doc.Operations[0].Extensions.IndexEndpoint = false
		fetcher.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
		resolver.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(doc, nil).Once()

		_, err := newUseCase(fetcher, resolver).Execute(ctx, source, domain.GenerationOptions{}, sink)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingIndexEndpoint)
		sink.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sink errors stop the run", func(t *testing.T) {
		fetcher := new(MockSchemaFetcher)
		resolver := new(MockSchemaResolver)
		sink := new(MockOutputSink)
		writeErr := errors.New("disk full")
		fetcher.On("Fetch", mock.Anything, source).Return(schema, nil).Once()
		resolver.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(tasksDocument(), nil).Once()
		sink.On("WriteFile", mock.Anything, "tasksApiSlice.ts", mock.Anything).Return(writeErr).Once()

		_, err := newUseCase(fetcher, resolver).Execute(ctx, source, domain.GenerationOptions{}, sink)
		assert.ErrorIs(t, err, writeErr)
		sink.AssertNumberOfCalls(t, "WriteFile", 1)
	})
}

func TestGenerateUseCase_ListGroupings(t *testing.T) {
	fetcher := new(MockSchemaFetcher)
	resolver := new(MockSchemaResolver)
	schema := domain.APISchema{Source: "openapi.yaml"}

	doc := tasksDocument()
	doc.Operations = append(doc.Operations, domain.OperationDefinition{
		Verb: "get", Path: "/projects", Extensions: domain.Extensions{Grouping: "projects"},
	})
	fetcher.On("Fetch", mock.Anything, "openapi.yaml").Return(schema, nil).Once()
	resolver.On("Resolve", mock.Anything, schema, domain.ResolveOptions{}).Return(doc, nil).Once()

	groupings, err := newUseCase(fetcher, resolver).ListGroupings(context.Background(), "openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "tasks"}, groupings)
}
