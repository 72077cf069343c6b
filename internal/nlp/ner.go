package nlp

import "github.com/samarth-project/samarth/internal/model"

// Recognizer is an optional named-entity capability. Implementations add
// location and date spans at lower confidence than the gazetteers; the
// analyzer works identically without one, with reduced recall only.
type Recognizer interface {
	// Recognize returns candidate entities found in the original
	// (not lowercased) query text.
	Recognize(text string) []model.ExtractedEntity
}

// NoopRecognizer is the default Recognizer: it finds nothing.
type NoopRecognizer struct{}

// Recognize always returns no entities.
func (NoopRecognizer) Recognize(string) []model.ExtractedEntity { return nil }
