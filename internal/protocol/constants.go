package protocol

const (
	ToolNameReadQuery     = "read_query"
	ToolNameListTables    = "list_tables"
	ToolNameDescribeTable = "describe_table"
)

const (
	RPCMethodInitialize               = "initialize"
	RPCMethodNotificationsInitialized = "notifications/initialized"
	RPCMethodToolsList                = "tools/list"
	RPCMethodToolsCall                = "tools/call"
)

const (
	DefaultOllamaURL   = "http://127.0.0.1:11434"
	DefaultModel       = "llama3.1"
	DefaultTemperature = 0.7
	DefaultDBPath      = "jeopardy.db"

	ProtocolVersion = "2025-11-25"
)
