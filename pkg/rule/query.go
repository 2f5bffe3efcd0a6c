package rule

// XPath expressions shared by the document rules. They use the prefixes of
// [xaml.DefaultNamespaces].
const (
	queryRoot      = "/xaml:Activity"
	queryArguments = "/xaml:Activity/x:Members/x:Property"
	queryVariables = "//xaml:Variable"
	queryMainSeq   = "/xaml:Activity/xaml:Sequence"
	queryMainFlow  = "/xaml:Activity/xaml:Flowchart"

	// Annotation attribute on an activity.
	annotationAttr = "sap2010:Annotation.AnnotationText"

	queryRootAnnotationAttr    = queryRoot + "/@" + annotationAttr
	queryRootAnnotationElement = queryRoot + "/" + annotationAttr
)

// annotated restricts expr to nodes carrying a non-empty annotation.
func annotated(expr string) string {
	return expr + "[@" + annotationAttr + " and string-length(@" + annotationAttr + ")!=0]"
}
