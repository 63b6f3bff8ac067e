package graph

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Classifier is a hash-keyed equivalence classifier: it maps a value
// (identified by a caller-supplied canonical key, e.g. a structhash digest
// or a stringified column vector) to the id of its class, assigning new
// class ids in the order distinct keys are first seen. The exemplar (first
// occurrence) of each class is retained for later inspection — this is
// exactly what row/column equivalence classification and Moore state
// minimization need: "does this row/column look like one we've already
// seen, and if so, which one".
type Classifier struct {
	ids       *linkedhashmap.Map // canonical key -> class id
	exemplars []interface{}      // first occurrence, in assignment order
}

// NewClassifier creates an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{ids: linkedhashmap.New()}
}

// Classify returns the class id for key, creating a new class (with value
// as its exemplar) on first occurrence.
func (c *Classifier) Classify(key string, value interface{}) (id int, isNew bool) {
	if v, ok := c.ids.Get(key); ok {
		return v.(int), false
	}
	id = len(c.exemplars)
	c.ids.Put(key, id)
	c.exemplars = append(c.exemplars, value)
	return id, true
}

// ClassOf returns the class id already assigned to key, if any.
func (c *Classifier) ClassOf(key string) (id int, ok bool) {
	v, ok := c.ids.Get(key)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// NumClasses returns the number of distinct classes seen so far.
func (c *Classifier) NumClasses() int { return len(c.exemplars) }

// Exemplar returns the first value classified into class id.
func (c *Classifier) Exemplar(id int) interface{} { return c.exemplars[id] }
