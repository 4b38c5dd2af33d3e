package transcript

// Result is the settled outcome of one backend request. Exactly one of
// Err or the payload fields is meaningful.
type Result struct {
	Kind      Kind
	RequestID string
	Text      string
	ImageURL  string
	ImageData string
	Err       error
}

// apply writes the terminal state of r into the placeholder m. The
// placeholder keeps its own request id.
func (r Result) apply(m *Message) {
	m.IsPending = false
	m.Kind = r.Kind
	m.ImageURL = ""
	m.ImageData = ""

	switch {
	case r.Err != nil:
		m.Text = r.Kind.errorText()
	case r.Kind == KindImage:
		m.Text = r.Text
		m.ImageURL = r.ImageURL
		m.ImageData = r.ImageData
	default:
		m.Text = r.Text
	}
}
