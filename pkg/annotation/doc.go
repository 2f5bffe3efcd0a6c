// Package annotation decodes and encodes the structured annotations that
// UiPath Studio embeds in a workflow's documentation text.
//
// An encoded annotation looks like:
//
//	UPTF000001E0eyI8SGVscExpbms+a19fQmFja2luZ0ZpZWxkIjoi...
//
// It is the [Tag], followed by eight hexadecimal digits holding the length of
// the payload, followed by the payload: a base64 encoded JSON object. The
// object's keys use .NET auto-property backing field names, for example
// `<HelpLink>k__BackingField`. [Decode] normalises them to the three fields
// of a [Record].
package annotation
