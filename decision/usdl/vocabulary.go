package usdl

import "usdl-offering/decision/graph"

// Namespaces of the offering description vocabulary.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NSDCTerms = "http://purl.org/dc/terms/"
	NSFOAF    = "http://xmlns.com/foaf/0.1/"
	NSGR      = "http://purl.org/goodrelations/v1#"
	NSUSDL    = "http://www.linked-usdl.org/ns/usdl-core#"
	NSPrice   = "http://www.linked-usdl.org/ns/usdl-pricing#"
	NSLegal   = "http://www.linked-usdl.org/ns/usdl-legal#"
	NSSLA     = "http://www.linked-usdl.org/ns/usdl-sla#"
	NSSPIN    = "http://spinrdf.org/spin#"
	NSSP      = "http://spinrdf.org/sp#"
)

var (
	rdfType   = graph.IRI(NSRDF + "type")
	rdfsLabel = graph.IRI(NSRDFS + "label")

	dcTitle       = graph.IRI(NSDCTerms + "title")
	dcAbstract    = graph.IRI(NSDCTerms + "abstract")
	dcDescription = graph.IRI(NSDCTerms + "description")
	dcCreated     = graph.IRI(NSDCTerms + "created")
	dcModified    = graph.IRI(NSDCTerms + "modified")

	foafName      = graph.IRI(NSFOAF + "name")
	foafDepiction = graph.IRI(NSFOAF + "depiction")

	grHasCurrency      = graph.IRI(NSGR + "hasCurrency")
	grHasCurrencyValue = graph.IRI(NSGR + "hasCurrencyValue")
	grHasUnit          = graph.IRI(NSGR + "hasUnitOfMeasurement")
	grHasValue         = graph.IRI(NSGR + "hasValue")

	// Offering and service structure
	usdlServiceOffering     = graph.IRI(NSUSDL + "ServiceOffering")
	usdlIncludes            = graph.IRI(NSUSDL + "includes")
	usdlHasProvider         = graph.IRI(NSUSDL + "hasProvider")
	usdlVersionInfo         = graph.IRI(NSUSDL + "versionInfo")
	usdlHasPricePlan        = graph.IRI(NSUSDL + "hasPricePlan")
	usdlHasLegalCondition   = graph.IRI(NSUSDL + "hasLegalCondition")
	usdlHasServiceLevels    = graph.IRI(NSUSDL + "hasServiceLevelProfile")
	usdlHasInteractionProto = graph.IRI(NSUSDL + "hasInteractionProtocol")
	usdlHasTechnicalIface   = graph.IRI(NSUSDL + "hasTechnicalInterface")
	usdlHasInteraction      = graph.IRI(NSUSDL + "hasInteraction")
	usdlHasInterfaceOp      = graph.IRI(NSUSDL + "hasInterfaceOperation")
	usdlReceives            = graph.IRI(NSUSDL + "receives")
	usdlYields              = graph.IRI(NSUSDL + "yields")
	usdlHasInterfaceElement = graph.IRI(NSUSDL + "hasInterfaceElement")

	// Pricing
	priceHasPriceComponent = graph.IRI(NSPrice + "hasPriceComponent")
	priceHasTax            = graph.IRI(NSPrice + "hasTax")
	priceHasPrice          = graph.IRI(NSPrice + "hasPrice")
	priceHasPriceFunction  = graph.IRI(NSPrice + "hasPriceFunction")
	priceDeduction         = graph.IRI(NSPrice + "Deduction")
	priceVariableType      = graph.IRI(NSPrice + "variableType")

	// Legal
	legalHasClause = graph.IRI(NSLegal + "hasClause")
	legalName      = graph.IRI(NSLegal + "name")
	legalText      = graph.IRI(NSLegal + "text")

	// Service levels
	slaHasServiceLevel = graph.IRI(NSSLA + "hasServiceLevel")
	slaExpression      = graph.IRI(NSSLA + "serviceLevelExpression")
	slaHasVariable     = graph.IRI(NSSLA + "hasVariable")
	slaHasDefault      = graph.IRI(NSSLA + "hasDefault")

	// Price functions
	spinFunction   = graph.IRI(NSSPIN + "Function")
	spinConstraint = graph.IRI(NSSPIN + "constraint")
	spinBody       = graph.IRI(NSSPIN + "body")
	spWhere        = graph.IRI(NSSP + "where")
	spBind         = graph.IRI(NSSP + "Bind")
	spExpression   = graph.IRI(NSSP + "expression")
	spVariable     = graph.IRI(NSSP + "variable")
	spVarName      = graph.IRI(NSSP + "varName")
	spConstant     = graph.IRI(NSSP + "constant")
	spOperation    = graph.IRI(NSSP + "operation")
	spArg1         = graph.IRI(NSSP + "arg1")
	spArg2         = graph.IRI(NSSP + "arg2")
)
