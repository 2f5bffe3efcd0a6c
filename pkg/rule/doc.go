// Package rule implements the workflow style rules.
//
// A [DocumentRule] checks the text of a single workflow. Most rules are built
// on [Base], which parses the text and evaluates a pair of XPath expressions:
// a lenient expression matching every candidate node (for example every
// argument) and a strict expression matching the subset that already
// satisfies the rule (for example every annotated argument). The rule then
// reports on the difference between the two.
//
// A [ProjectRule] checks the project as a whole, using its manifest.
//
// Rule values keep the state of their last check. They may be reused across
// workflows one at a time, but are not safe for concurrent use; give each
// goroutine its own rules, for example by calling [Catalogue.DefaultRules]
// once per goroutine.
package rule
