// Package xaml parses UiPath workflow files and evaluates namespace-aware
// XPath expressions against them.
//
// Workflow files declare the activities namespace as their default namespace,
// so element names in expressions must be qualified with a bound prefix
// (e.g. `/xaml:Activity/x:Members/x:Property`) even though the document
// itself writes them without one.
package xaml
