package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"spellstorm/engine/logging"
)

type Console struct {
	logger   *log.Logger
	useColor bool
}

func NewConsole(w io.Writer, cfg logging.ConsoleConfig) *Console {
	return &Console{logger: log.New(w, "", log.LstdFlags), useColor: cfg.UseColor}
}

func (s *Console) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	severity := formatSeverity(event.Severity)
	if s.useColor {
		severity = colorSeverity(event.Severity, severity)
	}
	s.logger.Printf("[%s] tick=%d actor=%s severity=%s%s%s",
		event.Type, event.Tick, formatEntity(event.Actor), severity,
		formatTargets(event.Targets), formatPayload(event.Payload))
	return nil
}

func (s *Console) Close(context.Context) error {
	return nil
}

func formatSeverity(sev logging.Severity) string {
	switch sev {
	case logging.SeverityDebug:
		return "debug"
	case logging.SeverityInfo:
		return "info"
	case logging.SeverityWarn:
		return "warn"
	case logging.SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func colorSeverity(sev logging.Severity, label string) string {
	switch sev {
	case logging.SeverityDebug:
		return "\x1b[2m" + label + "\x1b[0m"
	case logging.SeverityWarn:
		return "\x1b[33m" + label + "\x1b[0m"
	case logging.SeverityError:
		return "\x1b[31m" + label + "\x1b[0m"
	default:
		return label
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
