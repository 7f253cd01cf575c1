// Package form implements the stateful form controller: it seeds values from
// a FormConfig, records user input, tracks which fields are visible, runs the
// compiled validator on submit and hands normalized values to the submit
// collaborator.
package form
