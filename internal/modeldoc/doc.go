// Package modeldoc implements the serialized model exchange format.
//
// A model document is a JSON (or YAML) object:
//
//	{
//	  "components":  [ {id, type, properties, position}, ... ],
//	  "connections": [ {id, source, target, type?}, ... ],
//	  "metadata":    {version, name?, createdAt?, updatedAt?}
//	}
//
// Import applies basic shape validation - entries missing an id or type,
// or whose properties are not an object, are dropped with a per-entry
// reason surfaced in the Report, never silently. Deeper validation is
// available through Validate, which checks the document against an
// embedded CUE schema and yields positioned diagnostics.
//
// Round-tripping Export then Import reproduces an equivalent component
// set: same ids, kinds and properties.
package modeldoc
