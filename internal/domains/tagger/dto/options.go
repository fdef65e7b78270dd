package dto

// Options selects what Transfer copies from the source into the target.
type Options struct {
	// Tags maps the source's textual metadata into the target.
	Tags bool
	// Cover embeds the source's cover art into the target.
	Cover bool
}
