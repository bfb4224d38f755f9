package generation

// Event is one unit of the text-generation progress stream. Transient; it
// exists only on the wire to the originating session.
type Event struct {
	Data                   string            `json:"data"`
	Partial                string            `json:"partial"`
	Percent                int               `json:"percent"`
	Error                  bool              `json:"error,omitempty"`
	Errors                 map[string]string `json:"errors,omitempty"`
	ErrorDetails           *ErrorDetails     `json:"error_details,omitempty"`
	ImageGenerationStarted bool              `json:"image_generation_started,omitempty"`
}

// ImageEvent is one unit of the image-generation progress stream.
type ImageEvent struct {
	Status       string        `json:"status,omitempty"`
	Percent      int           `json:"percent"`
	ImageURL     string        `json:"image_url,omitempty"`
	Error        bool          `json:"error,omitempty"`
	ErrorDetails *ErrorDetails `json:"error_details,omitempty"`
}

// Terminal reports whether no further callbacks will follow this event.
func (e ImageEvent) Terminal() bool {
	return e.Percent >= 100 && (e.Error || e.ImageURL != "")
}
