package dashboard

import "time"

// NoticeKind selects the styling of a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeDanger  NoticeKind = "danger"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

// Display durations.
const (
	FlashTTL = 3 * time.Second
	ToastTTL = 2 * time.Second
)

// CopiedText confirms a clipboard copy.
const CopiedText = "Copied to clipboard!"

// Notice is a message for the user. A zero TTL means the notice stays until
// dismissed (an alert).
type Notice struct {
	Kind NoticeKind    `json:"kind"`
	Text string        `json:"text"`
	TTL  time.Duration `json:"-"`
}

// TTLMillis is TTL in milliseconds, for the page script.
func (n Notice) TTLMillis() int64 {
	return n.TTL.Milliseconds()
}

// Flash is a transient notice shown for FlashTTL.
func Flash(kind NoticeKind, text string) Notice {
	return Notice{Kind: kind, Text: text, TTL: FlashTTL}
}

// Alert is an interactive notice the user dismisses.
func Alert(kind NoticeKind, text string) Notice {
	return Notice{Kind: kind, Text: text}
}

// CopyToast confirms a clipboard copy for ToastTTL.
func CopyToast() Notice {
	return Notice{Kind: NoticeInfo, Text: CopiedText, TTL: ToastTTL}
}

// expiring holds a notice until its TTL runs out.
type expiring struct {
	notice *Notice
	until  time.Time
}

func (e *expiring) set(n Notice, now time.Time) {
	e.notice = &n
	e.until = now.Add(n.TTL)
}

func (e *expiring) get(now time.Time) *Notice {
	if e.notice == nil || (e.notice.TTL > 0 && !now.Before(e.until)) {
		e.notice = nil
		return nil
	}
	n := *e.notice
	return &n
}
