package generator

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

func newTestGenerator() *Generator {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger)
}

func printModule(t *testing.T, m *Module) string {
	t.Helper()
	out, err := tsast.NewPrinter().PrintString(m.File)
	require.NoError(t, err)
	return out
}

func taskDeclaration() domain.Declaration {
	return domain.Declaration{Name: "Task", Stmt: &tsast.TypeAlias{
		Export: true,
		Name:   "Task",
		Type: &tsast.TypeLit{Members: []tsast.PropertySignature{
			{Name: "id", Type: tsast.Number},
			{Name: "name", Type: tsast.String},
		}},
	}}
}

func keyPath(t *testing.T, s string) *domain.KeyPath {
	t.Helper()
	kp, err := domain.ParseKeyPath(s)
	require.NoError(t, err)
	return &kp
}

// minimalTasksDocument has an index GET /tasks and a POST /tasks with an
// inline body.
func minimalTasksDocument() *domain.APIDocument {
	return &domain.APIDocument{
		Title:   "Tasks",
		BaseURL: "https://api.example.com",
		Operations: []domain.OperationDefinition{
			{
				Verb: "get",
				Path: "/tasks",
				Tags: []string{"tasks"},
				Responses: []domain.Response{
					{Code: "200", Description: "OK", JSON: true, Type: &tsast.ArrayOf{Elem: tsast.Ref("Task")}},
				},
				ReturnsJSON: true,
				Extensions:  domain.Extensions{Grouping: "tasks", IndexEndpoint: true},
			},
			{
				Verb: "post",
				Path: "/tasks",
				Tags: []string{"tasks"},
				RequestBody: &domain.RequestBody{
					Required:    true,
					ContentType: "application/json",
					Type: &tsast.TypeLit{Members: []tsast.PropertySignature{
						{Name: "name", Type: tsast.String},
					}},
				},
				Responses: []domain.Response{
					{Code: "201", Description: "Created", JSON: true, Type: tsast.Ref("Task")},
				},
				ReturnsJSON: true,
				Extensions:  domain.Extensions{Grouping: "tasks"},
			},
		},
		Declarations: []domain.Declaration{
			taskDeclaration(),
			{Name: "Unused", Stmt: &tsast.TypeAlias{Export: true, Name: "Unused", Type: tsast.String}},
		},
	}
}

// fullTasksDocument adds keyed put and delete operations and a second
// grouping.
func fullTasksDocument(t *testing.T) *domain.APIDocument {
	doc := minimalTasksDocument()
	taskID := domain.Parameter{Name: "task_id", In: domain.InPath, Required: true, Type: tsast.Number}
	doc.Operations = append(doc.Operations,
		domain.OperationDefinition{
			Verb:       "put",
			Path:       "/tasks/{task_id}",
			Tags:       []string{"tasks", "edits"},
			Parameters: []domain.Parameter{taskID},
			RequestBody: &domain.RequestBody{
				Required: true,
				TypeName: "TaskUpdate",
				RefName:  "TaskUpdate",
				Type:     tsast.Ref("TaskUpdate"),
			},
			Responses:   []domain.Response{{Code: "200", Description: "OK", JSON: true, Type: tsast.Ref("Task")}},
			ReturnsJSON: true,
			Extensions:  domain.Extensions{Grouping: "tasks", UpdateByKey: keyPath(t, "parameters.task_id")},
		},
		domain.OperationDefinition{
			Verb:       "delete",
			Path:       "/tasks/{task_id}",
			Tags:       []string{"edits"},
			Parameters: []domain.Parameter{taskID},
			Responses:  []domain.Response{{Code: "204", Description: "No Content"}},
			Extensions: domain.Extensions{Grouping: "tasks", UpdateByKey: keyPath(t, "parameters.task_id")},
		},
		domain.OperationDefinition{
			Verb: "get",
			Path: "/projects",
			Responses: []domain.Response{
				{Code: "200", Description: "OK", JSON: true, Type: &tsast.TypeLit{Members: []tsast.PropertySignature{
					{Name: "projects", Type: &tsast.ArrayOf{Elem: tsast.Ref("Project")}},
				}}},
			},
			ReturnsJSON: true,
			Extensions:  domain.Extensions{Grouping: "projects", IndexEndpoint: true, IndexResponseKey: "projects"},
		},
	)
	doc.Declarations = append(doc.Declarations,
		domain.Declaration{Name: "TaskUpdate", Stmt: &tsast.TypeAlias{Export: true, Name: "TaskUpdate", Type: &tsast.TypeLit{
			Members: []tsast.PropertySignature{{Name: "name", Optional: true, Type: tsast.String}},
		}}},
		domain.Declaration{Name: "Project", Stmt: &tsast.TypeAlias{Export: true, Name: "Project", Type: &tsast.TypeLit{
			Members: []tsast.PropertySignature{
				{Name: "id", Type: tsast.Number},
				{Name: "owner", Type: tsast.Ref("Owner")},
			},
		}}},
		domain.Declaration{Name: "Owner", Stmt: &tsast.TypeAlias{Export: true, Name: "Owner", Type: tsast.String}},
	)
	return doc
}
