package generator

// Identifiers is the Redux Toolkit vocabulary used by generated code. It is
// injected into the Generator so that tests and callers can rename the
// emitted bindings without touching the assembly code.
type Identifiers struct {
	ToolkitModule string
	QueryModule   string
	ReactModule   string
	ReduxModule   string

	CreateAPI           string
	FetchBaseQuery      string
	CreateEntityAdapter string
	CreateSlice         string
	ConfigureStore      string
	SetupListeners      string
	EntityState         string
	EntityID            string

	EntityAdapterVar  string
	InitialStateVar   string
	GetInitialState   string
	GetSelectors      string
	SetAll            string
	EndpointsProperty string
	Builder           string

	SelectEntryResult string
	EntrySelectors    string
	State             string

	QueryArg        string
	ResponseData    string
	Patch           string
	Cache           string
	Dispatch        string
	QueryFulfilled  string
	OnQueryStarted  string
	UpdateQueryData string

	CacheSliceName  string
	CacheModule     string
	CacheReducerVar string
	UpdateCache     string
	SelectCache     string
	UseCacheInit    string
	UseCacheUpdate  string
	StoreVar        string
	StoreModule     string
}

// DefaultIdentifiers returns the names used by Redux Toolkit 2.
func DefaultIdentifiers() Identifiers {
	return Identifiers{
		ToolkitModule: "@reduxjs/toolkit",
		QueryModule:   "@reduxjs/toolkit/query/react",
		ReactModule:   "react",
		ReduxModule:   "react-redux",

		CreateAPI:           "createApi",
		FetchBaseQuery:      "fetchBaseQuery",
		CreateEntityAdapter: "createEntityAdapter",
		CreateSlice:         "createSlice",
		ConfigureStore:      "configureStore",
		SetupListeners:      "setupListeners",
		EntityState:         "EntityState",
		EntityID:            "EntityId",

		EntityAdapterVar:  "entityAdapter",
		InitialStateVar:   "initialState",
		GetInitialState:   "getInitialState",
		GetSelectors:      "getSelectors",
		SetAll:            "setAll",
		EndpointsProperty: "endpoints",
		Builder:           "build",

		SelectEntryResult: "selectEntryResult",
		EntrySelectors:    "entrySelectors",
		State:             "state",

		QueryArg:        "queryArg",
		ResponseData:    "responseData",
		Patch:           "patch",
		Cache:           "cache",
		Dispatch:        "dispatch",
		QueryFulfilled:  "queryFulfilled",
		OnQueryStarted:  "onQueryStarted",
		UpdateQueryData: "updateQueryData",

		CacheSliceName:  "cache",
		CacheModule:     "cache",
		CacheReducerVar: "cacheReducer",
		UpdateCache:     "updateCache",
		SelectCache:     "selectCache",
		UseCacheInit:    "useCacheInit",
		UseCacheUpdate:  "useCacheUpdate",
		StoreVar:        "store",
		StoreModule:     "store",
	}
}
