// Package form describes the report request form as data.
//
// A form is a list of Field descriptors (key, label, kind, constraints).
// Schema returns the static first stage; FindingFields, PeripheralFields and
// PriorFields generate the stages that depend on earlier answers. Render is
// the single routine that turns any field list into an interactive terminal
// form, and Bind converts the collected Values into a model.Request.
//
// Field.Check is the only validation routine. The renderer calls it on every
// keystroke and Bind calls it again on the collected values, so a request
// built from a form passes the same checks regardless of how the values were
// entered.
package form
