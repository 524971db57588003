// Package annotation defines the stored annotation document and its stores.
//
// An [Annotation] ties a region of a target image, expressed as a
// [selector.Selector], to an optional list of bodies (comments, tags). The
// geometry itself is never stored; it is parsed from the selector on demand.
//
// # Stores
//
// [Store] has four backends:
//   - [MemoryStore]: in-process map, the default for tests and replay
//   - [FileStore]: one JSON file per annotation under a data directory
//   - [RedisStore]: JSON values plus a per-source index set
//   - [MongoStore]: one document per annotation
//
// [Open] builds the backend named in a [config.Store], retrying the initial
// connection with backoff.
package annotation

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

// Body purposes used by the CLI and server.
const (
	PurposeCommenting = "commenting"
	PurposeTagging    = "tagging"
)

// Annotation is a stored annotation.
type Annotation struct {
	ID      string    `json:"id" bson:"_id"`
	Target  Target    `json:"target" bson:"target"`
	Bodies  []Body    `json:"bodies,omitempty" bson:"bodies,omitempty"`
	Creator *User     `json:"creator,omitempty" bson:"creator,omitempty"`
	Created time.Time `json:"created" bson:"created"`
	Updated time.Time `json:"updated,omitzero" bson:"updated,omitempty"`
}

// Target is the annotated region: a source image and a selector within it.
type Target struct {
	Source   string            `json:"source" bson:"source"`
	Selector selector.Selector `json:"selector" bson:"selector"`
}

// Body is one piece of content attached to an annotation.
type Body struct {
	ID      string    `json:"id" bson:"id"`
	Purpose string    `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Value   string    `json:"value" bson:"value"`
	Creator *User     `json:"creator,omitempty" bson:"creator,omitempty"`
	Created time.Time `json:"created,omitzero" bson:"created,omitempty"`
}

// User identifies the author of an annotation or body.
type User struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// New returns an annotation with a fresh ID and creation time.
func New(source string, sel selector.Selector) Annotation {
	return Annotation{
		ID:      uuid.NewString(),
		Target:  Target{Source: source, Selector: sel},
		Created: time.Now().UTC(),
	}
}

// NewBody returns a body with a fresh ID.
func NewBody(purpose, value string) Body {
	return Body{ID: uuid.NewString(), Purpose: purpose, Value: value, Created: time.Now().UTC()}
}

// Geometry parses the target selector. img resolves percent fragments.
func (a Annotation) Geometry(img selector.ImageContext) (geom.Geometry, error) {
	return selector.ParseIn(a.Target.Selector, img)
}

// WithGeometry returns a copy of a whose selector is serialized from g.
func (a Annotation) WithGeometry(g geom.Geometry, img selector.ImageContext) (Annotation, error) {
	sel, err := selector.Serialize(g, img)
	if err != nil {
		return a, err
	}
	b := a.Clone()
	b.Target.Selector = sel
	b.Updated = time.Now().UTC()
	return b, nil
}

// Clone returns a deep copy.
func (a Annotation) Clone() Annotation {
	b := a
	if a.Bodies != nil {
		b.Bodies = append([]Body(nil), a.Bodies...)
	}
	if a.Creator != nil {
		u := *a.Creator
		b.Creator = &u
	}
	return b
}

// Validate checks the ID, the source and that the selector parses. Percent
// selectors are checked for syntax only.
func (a Annotation) Validate() error {
	if err := errors.ValidateAnnotationID(a.ID); err != nil {
		return err
	}
	if err := errors.ValidateSource(a.Target.Source); err != nil {
		return err
	}
	img := selector.ImageContext{Width: 100, Height: 100}
	if _, err := a.Geometry(img); err != nil {
		return err
	}
	return nil
}
