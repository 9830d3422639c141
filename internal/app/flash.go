package app

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/clipboard"
	pcerrors "github.com/zhubert/simplechat/internal/errors"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/ui"
)

// flash sets the footer notice and starts its dismiss timer.
func (m *Model) flash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

// fail logs a failed request and surfaces it as an alert or, with alerts
// turned off, an error flash. Superseded requests are only logged.
func (m *Model) fail(op string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	log := logger.WithComponent("app")
	if pcerrors.IsCanceled(err) {
		log.Debug("request canceled", "op", op)
		return nil
	}
	log.Error("request failed", "op", op, "kind", pcerrors.GetKind(err), "error", err)

	text := fmt.Sprintf("%s failed: %v", op, err)
	if m.config.GetAlertOnError() {
		m.modal.Show(ui.NewAlertState(alertTitle(err), text))
		return nil
	}
	return m.flash(text, ui.FlashError)
}

func alertTitle(err error) string {
	var e *pcerrors.Error
	if !errors.As(err, &e) {
		return "Error"
	}
	switch e.Kind {
	case pcerrors.KindStatus:
		return "Server error"
	case pcerrors.KindDecode:
		return "Bad response"
	case pcerrors.KindNetwork, pcerrors.KindTimeout, pcerrors.KindClosed:
		return "Connection problem"
	default:
		return "Error"
	}
}

// copyTranscript puts the open chat on the clipboard and reports the
// outcome in the footer.
func (m *Model) copyTranscript() tea.Cmd {
	text := m.messages.Text()
	if text == "" {
		return m.flash("Nothing to copy", ui.FlashInfo)
	}
	if err := clipboard.WriteText(text); err != nil {
		logger.WithComponent("app").Warn("copy failed", "error", err)
		return m.flash("Clipboard unavailable", ui.FlashError)
	}
	return m.flash("Transcript copied", ui.FlashSuccess)
}
