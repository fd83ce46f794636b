package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"cobscan/internal/config"
	"cobscan/internal/errors"
	"cobscan/internal/logging"
	"cobscan/internal/source"
)

// Proleap invokes a ProLeap Java bridge as a subprocess. Two bridge main
// classes are known: com.astra.proleap.JsonCli (rich JSON) and
// com.renova.proleap.CLI (minimal JSON). Both print exactly one JSON
// object to stdout at the end.
type Proleap struct {
	cfg    config.EngineConfig
	logger *logging.Logger
}

// Resolve builds the configured engine, or returns (nil, false) when no
// engine is usable. A missing jar is an availability problem, not a
// failure: the caller falls back to heuristics.
func Resolve(cfg config.EngineConfig, logger *logging.Logger) (Engine, bool) {
	if cfg.Jar == "" {
		return nil, false
	}
	if _, err := os.Stat(cfg.Jar); err != nil {
		logger.Warn("engine jar not found, falling back to heuristics", map[string]interface{}{
			"jar": cfg.Jar,
		})
		return nil, false
	}
	if cfg.Main == "" {
		logger.Warn("engine main class not configured, falling back to heuristics", nil)
		return nil, false
	}
	return &Proleap{cfg: cfg, logger: logger}, true
}

// ID derives a short engine identifier from the bridge main class.
func (p *Proleap) ID() string {
	switch {
	case strings.Contains(p.cfg.Main, "com.astra.proleap.JsonCli"):
		return "JsonCli"
	case strings.Contains(p.cfg.Main, "com.renova.proleap.CLI"):
		return "RenovaCLI"
	case p.cfg.Main != "":
		return p.cfg.Main
	default:
		return "unknown"
	}
}

// Parse runs the bridge against the file and decodes its structure.
func (p *Proleap) Parse(ctx context.Context, path string, format source.Format) (*Structure, error) {
	timeout := time.Duration(p.cfg.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.javaBin(), "-cp", p.classpath(), p.cfg.Main, path)
	cmd.Env = append(os.Environ(), "COBOL_SOURCE_FORMAT="+string(format))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, errors.Newf(errors.ExternalParseFailed,
			"engine timeout after %.2fs", elapsed.Seconds())
	}

	jsonText := lastJSONLine(stdout.String())
	if jsonText == "" {
		p.logger.Error("engine returned non-JSON output", map[string]interface{}{
			"exit":   exitString(runErr),
			"stdout": clip(stdout.String(), 400),
			"stderr": clip(stderr.String(), 400),
		})
		return nil, errors.New(errors.ExternalParseFailed, "engine returned non-JSON output", runErr)
	}

	var payload bridgePayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		p.logger.Error("engine returned invalid JSON", map[string]interface{}{
			"exit":   exitString(runErr),
			"stdout": clip(stdout.String(), 400),
			"stderr": clip(stderr.String(), 400),
		})
		return nil, errors.New(errors.ExternalParseFailed, "engine returned invalid JSON", err)
	}
	if payload.Status != "ok" {
		msg := payload.Message
		if msg == "" {
			msg = "unknown engine error"
		}
		return nil, errors.Newf(errors.ExternalParseFailed, "%s", addHints(msg))
	}

	p.logger.Debug("engine parse ok", map[string]interface{}{
		"file":       path,
		"engine":     p.ID(),
		"durationMs": elapsed.Milliseconds(),
		"paragraphs": len(payload.Paragraphs),
	})
	return payload.toStructure(), nil
}

func (p *Proleap) javaBin() string {
	if p.cfg.JavaHome != "" {
		return filepath.Join(p.cfg.JavaHome, "bin", "java")
	}
	return "java"
}

func (p *Proleap) classpath() string {
	parts := []string{p.cfg.Jar}
	if p.cfg.Classpath != "" {
		parts = append(parts, p.cfg.Classpath)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

// bridgePayload mirrors the JSON both bridge variants print. The minimal
// CLI only fills status and file; every other field is optional.
type bridgePayload struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ProgramID string `json:"programId"`
	Divisions map[string]struct {
		Present bool `json:"present"`
	} `json:"divisions"`
	Paragraphs []struct {
		Name string `json:"name"`
	} `json:"paragraphs"`
}

func (b *bridgePayload) toStructure() *Structure {
	s := &Structure{
		ProgramID: strings.ToUpper(strings.TrimSpace(b.ProgramID)),
		Divisions: DivisionFlags{
			Identification: b.Divisions["identification"].Present,
			Environment:    b.Divisions["environment"].Present,
			Data:           b.Divisions["data"].Present,
			Procedure:      b.Divisions["procedure"].Present,
		},
	}
	for _, p := range b.Paragraphs {
		name := strings.ToUpper(strings.TrimSpace(p.Name))
		if name != "" {
			s.ParagraphNames = append(s.ParagraphNames, name)
		}
	}
	return s
}

// lastJSONLine tolerates stray text around the bridge output: it returns
// the last line that looks like a complete JSON object.
func lastJSONLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s
	}
	var cand string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			cand = line
		}
	}
	return cand
}

// addHints decorates known grammar gaps with actionable context.
func addHints(msg string) string {
	if strings.Contains(msg, "EXEC DLI") {
		return msg + " [Hint: IMS/EXEC DLI statements are not supported by the stock ProLeap grammar.]"
	}
	if strings.Contains(msg, "SEND-PLAIN-TEXT") {
		return msg + " [Hint: This looks like a CICS BMS macro form; the stock grammar does not accept it as a verb.]"
	}
	return msg
}

func exitString(err error) string {
	if err == nil {
		return "0"
	}
	return err.Error()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
