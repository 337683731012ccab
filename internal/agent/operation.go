package agent

import (
	"strings"

	"answerthere/internal/protocol"
)

// Operation is the closed set of database actions the assistant can take.
// Each variant carries exactly the parameters its tool requires; dispatch
// matches exhaustively so an unhandled variant cannot slip through.
type Operation interface {
	ToolName() string
	Params() map[string]any
	isOperation()
}

type ReadQuery struct {
	Query string
}

func (ReadQuery) ToolName() string { return protocol.ToolNameReadQuery }

func (o ReadQuery) Params() map[string]any { return map[string]any{"query": o.Query} }

func (ReadQuery) isOperation() {}

type ListTables struct{}

func (ListTables) ToolName() string { return protocol.ToolNameListTables }

func (ListTables) Params() map[string]any { return map[string]any{} }

func (ListTables) isOperation() {}

type DescribeTable struct {
	TableName string
}

func (DescribeTable) ToolName() string { return protocol.ToolNameDescribeTable }

func (o DescribeTable) Params() map[string]any { return map[string]any{"table_name": o.TableName} }

func (DescribeTable) isOperation() {}

// OperationFromCall maps a {name, input} tool call onto an Operation,
// normalizing parameters per operation. ReadQuery accepts the alternate
// "sql" key and renames it to "query"; ListTables drops any supplied
// parameters. Missing required parameters are rejected here so a malformed
// set is never partially dispatched.
func OperationFromCall(name string, input map[string]any) (Operation, error) {
	switch name {
	case protocol.ToolNameReadQuery:
		query, _ := input["query"].(string)
		if strings.TrimSpace(query) == "" {
			if sql, ok := input["sql"].(string); ok {
				query = sql
			}
		}
		if strings.TrimSpace(query) == "" {
			return nil, &ParamValidationError{Operation: name, Param: "query"}
		}
		return ReadQuery{Query: query}, nil
	case protocol.ToolNameDescribeTable:
		table, _ := input["table_name"].(string)
		if strings.TrimSpace(table) == "" {
			return nil, &ParamValidationError{Operation: name, Param: "table_name"}
		}
		return DescribeTable{TableName: table}, nil
	case protocol.ToolNameListTables:
		return ListTables{}, nil
	default:
		return nil, &UnknownOperationError{Name: name}
	}
}
