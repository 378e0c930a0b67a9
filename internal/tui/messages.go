package tui

import (
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
)

// reportLoadedMsg carries the outcome of one load-and-classify pass.
type reportLoadedMsg struct {
	err    error
	report *expiry.Report
}

// dispatchDoneMsg carries the outcome of one notification attempt.
type dispatchDoneMsg struct {
	result model.NotificationResult
}
