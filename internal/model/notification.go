package model

// TemplateContext carries the values interpolated into a notification.
// For expired notices DayDelta may be left nil or set to zero alongside Expired.
type TemplateContext struct {
	DayDelta *int
	Name     string
	Category string
	Expired  bool
}

// IsExpired reports whether the context describes an already-passed date.
func (t TemplateContext) IsExpired() bool {
	return t.Expired || (t.DayDelta != nil && *t.DayDelta < 0)
}

// Message is a rendered plain-text notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// NotificationResult is the outcome of one dispatch attempt.
type NotificationResult struct {
	AttemptID string
	Recipient string
	Detail    string
	Delivered bool
}

// TemplateContext builds the notification values for one tracked field of c.
// The field name doubles as the category label.
func (c ClassifiedRecord) TemplateContext(field string) TemplateContext {
	res := c.Result(field)
	return TemplateContext{
		Name:     c.Name,
		Category: field,
		DayDelta: res.DayDelta,
		Expired:  res.Classification == ClassificationExpired,
	}
}
