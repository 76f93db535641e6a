package render

// RenderOptions carry per-call data renderers use to customise output
// without touching the form tree.
type RenderOptions struct {
	// Title is shown above the form.
	Title string
	// Locale and Translator resolve failure keys into messages. A nil
	// Translator falls back to DefaultMessages.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// ShowAll renders messages for untouched, pristine nodes too.
	ShowAll bool
	// Errors adds external feedback keyed by dotted path. An empty path is
	// treated as form-level.
	Errors map[string][]string
	// Hidden inputs emitted alongside the visible controls.
	Hidden map[string]string
	// Only restricts output to the listed top-level paths.
	Only []string
}

// Feedback resolves the error mapping a renderer should display for snap.
func (o RenderOptions) Feedback(snap NodeView) ErrorMapping {
	translator := o.Translator
	if translator == nil {
		translator = DefaultMessages()
	}
	opts := []MapOption{WithLocale(o.Locale), WithMissingHandler(o.OnMissing)}
	if !o.ShowAll {
		opts = append(opts, OnlyInteracted())
	}
	return MapErrors(snap, translator, opts...).Merge(o.Errors)
}
