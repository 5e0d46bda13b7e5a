package server

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/LaBatata101/python-lsp/internal/util"
	"github.com/LaBatata101/python-lsp/lsp"
)

func toPosition(p lsp.Position) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(p.Character)}
}

func fromPosition(p protocol.Position) lsp.Position {
	return lsp.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toRange(r lsp.Range) protocol.Range {
	return protocol.Range{Start: toPosition(r.Start), End: toPosition(r.End)}
}

func toDiagnostics(diags []lsp.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		severity := protocol.DiagnosticSeverity(d.Severity)
		out[i] = protocol.Diagnostic{
			Range:    toRange(d.Range),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   util.Ptr(d.Source),
			Message:  d.Message,
		}
	}
	return out
}

func toDocumentSymbols(symbols []lsp.DocumentSymbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           protocol.SymbolKind(s.Kind),
			Range:          toRange(s.Range),
			SelectionRange: toRange(s.SelectionRange),
			Children:       toDocumentSymbols(s.Children),
		}
		if s.Detail != "" {
			out[i].Detail = util.Ptr(s.Detail)
		}
	}
	return out
}
