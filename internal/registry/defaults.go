package registry

// Canonical provider ids.
const (
	ProviderFilesystem = "filesystem"
	ProviderMemory     = "memory"
	ProviderWebSearch  = "web_search"
	ProviderDeepWiki   = "deepwiki"
	ProviderWorkflow   = "n8n-mcp"
)

// Filesystem operation names.
const (
	OpListDirectory = "list_directory"
	OpReadFile      = "read_file"
	OpSearchFiles   = "search_files"
)

// Memory operation names.
const (
	OpStoreMemory    = "store_memory"
	OpRetrieveMemory = "retrieve_memory"
)

// Remaining operation names.
const (
	OpSearchWeb      = "search_web"
	OpSearchWiki     = "search_wiki"
	OpCreateWorkflow = "create_workflow"
	OpListWorkflows  = "list_workflows"
)

// Defaults returns the compiled-in provider set. The registry starts from
// this set at every boot; an overlay document may replace it wholesale.
func Defaults() []Provider {
	return []Provider{
		{
			ID:               ProviderFilesystem,
			DefaultOperation: OpListDirectory,
			Operations: []Operation{
				{
					Name:        OpReadFile,
					Description: "Read the complete contents of a file from the filesystem",
					Params: map[string]ParamSpec{
						"path": {Type: "string", Description: "Path to the file to read", Required: true},
					},
				},
				{
					Name:        OpListDirectory,
					Description: "List contents of a directory",
					Params: map[string]ParamSpec{
						"path": {Type: "string", Description: "Path to the directory to list", Required: true},
					},
				},
				{
					Name:        OpSearchFiles,
					Description: "Search for files matching a pattern",
					Params: map[string]ParamSpec{
						"pattern": {Type: "string", Description: "Search pattern", Required: true},
						"path":    {Type: "string", Description: "Directory to search in", Required: true},
					},
				},
			},
		},
		{
			ID:               ProviderMemory,
			DefaultOperation: OpRetrieveMemory,
			Operations: []Operation{
				{
					Name:        OpStoreMemory,
					Description: "Store information in memory for later retrieval",
					Params: map[string]ParamSpec{
						"key":   {Type: "string", Description: "Memory key", Required: true},
						"value": {Type: "string", Description: "Value to store", Required: true},
					},
				},
				{
					Name:        OpRetrieveMemory,
					Description: "Retrieve information from memory",
					Params: map[string]ParamSpec{
						"key": {Type: "string", Description: "Memory key to retrieve", Required: true},
					},
				},
			},
		},
		{
			ID:               ProviderWebSearch,
			DefaultOperation: OpSearchWeb,
			Operations: []Operation{
				{
					Name:        OpSearchWeb,
					Description: "Search the internet for information",
					Params: map[string]ParamSpec{
						"query":       {Type: "string", Description: "Search query", Required: true},
						"num_results": {Type: "integer", Description: "Number of results to return (default: 5)", Required: false},
					},
				},
			},
		},
		{
			ID:               ProviderDeepWiki,
			DefaultOperation: OpSearchWiki,
			Operations: []Operation{
				{
					Name:        OpSearchWiki,
					Description: "Search documentation and wiki pages",
					Params: map[string]ParamSpec{
						"query": {Type: "string", Description: "Search query", Required: true},
						"repo":  {Type: "string", Description: "Repository to search in (optional)", Required: false},
					},
				},
			},
		},
		{
			ID:               ProviderWorkflow,
			DefaultOperation: OpCreateWorkflow,
			Operations: []Operation{
				{
					Name:        OpCreateWorkflow,
					Description: "Create a new automation workflow",
					Params: map[string]ParamSpec{
						"name":        {Type: "string", Description: "Workflow name", Required: true},
						"description": {Type: "string", Description: "Workflow description", Required: false},
					},
				},
				{
					Name:        OpListWorkflows,
					Description: "List available automation workflows",
					Params:      map[string]ParamSpec{},
				},
			},
		},
	}
}
