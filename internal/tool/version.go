package tool

import (
	"context"
	"errors"
	"fmt"

	"netlens/internal/domain"
	"netlens/internal/parser"
)

var errMissingDeviceName = fmt.Errorf("missing required argument device_name")

// ShowVersionTool collects and parses a device's version facts.
type ShowVersionTool struct {
	deps *Deps
}

func (t *ShowVersionTool) Name() string {
	return "show_version"
}

func (t *ShowVersionTool) Description() string {
	return "Run 'show version' on a device and return structured version facts"
}

func (t *ShowVersionTool) Parameters() map[string]any {
	return deviceParameter()
}

// Execute returns structured facts when a grammar handles the output, and
// falls back to raw text when no grammar exists or parsing fails. Transport
// failures still fail.
func (t *ShowVersionTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "device_name")
	if !ok {
		return nil, errMissingDeviceName
	}
	device, err := t.deps.device(name)
	if err != nil {
		return nil, err
	}

	result, err := t.deps.Sessions.Run(ctx, device, parser.CommandShowVersion, t.deps.CommandTimeout)
	if err != nil {
		return nil, err
	}

	parsed, err := t.deps.Parsers.Parse(device.OS, parser.CommandShowVersion, result.Output)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.Is(err, parser.ErrNoParser) || errors.As(err, &parseErr) {
			return map[string]any{
				"device":  device.Name,
				"raw":     result.Output,
				"warning": err.Error(),
			}, nil
		}
		return nil, err
	}

	if fact, ok := parsed.(*domain.VersionFact); ok {
		fact.Device = device.Name
	}
	return map[string]any{
		"device": device.Name,
		"fact":   parsed,
	}, nil
}
