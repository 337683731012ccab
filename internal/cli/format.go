package cli

import (
	"strings"

	"answerthere/internal/agent"
	"answerthere/internal/ui"
)

// formatTurn renders a turn outcome for display: styled payloads for
// dispatched tool calls, plain text otherwise.
func formatTurn(res agent.TurnResult) string {
	if res.Result == nil {
		return strings.TrimSpace(res.Text)
	}
	if !res.Result.OK {
		return ui.Error(res.Result.ErrorMessage) + "\n" +
			ui.Dim("Try a direct command like 'read_query <SQL>'.")
	}
	header := ui.Info("tool", res.Op.ToolName())
	payload := strings.TrimSpace(res.Result.Payload)
	if payload == "" {
		payload = ui.Dim("No data returned.")
	} else {
		payload = ui.Payload(payload)
	}
	return header + "\n" + payload
}
