package ontology

import "sort"

// The Master Concept Library is the working vocabulary of the extraction
// pipeline: informal entity and relationship type names chosen for prompt
// clarity rather than ontological rigor. Each name maps to exactly one
// DOLCE concept or relation, which is what validation and storage use.

// EntityConceptMap maps MCL entity type names to DOLCE concept names.
var EntityConceptMap = map[string]string{
	// Individual and collective agents
	"IndividualActor": string(CatAgentivePhysicalObject),
	"Leader":          string(CatAgentivePhysicalObject),
	"Official":        string(CatAgentivePhysicalObject),
	"Diplomat":        string(CatAgentivePhysicalObject),
	"Journalist":      string(CatAgentivePhysicalObject),
	"Researcher":      string(CatAgentivePhysicalObject),
	"Activist":        string(CatAgentivePhysicalObject),
	"Candidate":       string(CatAgentivePhysicalObject),
	"Executive":       string(CatAgentivePhysicalObject),

	"Organization":   string(CatSocialAgent),
	"GovernmentBody": string(CatSocialAgent),
	"Agency":         string(CatSocialAgent),
	"Ministry":       string(CatSocialAgent),
	"Court":          string(CatSocialAgent),
	"Parliament":     string(CatSocialAgent),
	"PoliticalParty": string(CatSocialAgent),
	"Company":        string(CatSocialAgent),
	"Bank":           string(CatSocialAgent),
	"NGO":            string(CatSocialAgent),
	"University":     string(CatSocialAgent),
	"MediaOutlet":    string(CatSocialAgent),
	"MilitaryUnit":   string(CatSocialAgent),
	"Committee":      string(CatSocialAgent),
	"Regulator":      string(CatSocialAgent),
	"TradeUnion":     string(CatSocialAgent),

	"CollectiveActor": string(CatSociety),
	"Nation":          string(CatSociety),
	"Community":       string(CatSociety),
	"EthnicGroup":     string(CatSociety),
	"ReligiousGroup":  string(CatSociety),
	"SocialMovement":  string(CatSociety),
	"Coalition":       string(CatSociety),
	"Electorate":      string(CatSociety),

	// Places
	"Location":  string(CatPlace),
	"Country":   string(CatPlace),
	"Region":    string(CatPlace),
	"City":      string(CatPlace),
	"Territory": string(CatPlace),
	"District":  string(CatPlace),

	// Physical objects and stuff
	"Facility":       string(CatNonAgentivePhysicalObject),
	"Building":       string(CatNonAgentivePhysicalObject),
	"Infrastructure": string(CatNonAgentivePhysicalObject),
	"Artifact":       string(CatNonAgentivePhysicalObject),
	"Weapon":         string(CatNonAgentivePhysicalObject),
	"Product":        string(CatNonAgentivePhysicalObject),
	"NaturalFeature": string(CatNonAgentivePhysicalObject),
	"Resource":       string(CatAmountOfMatter),
	"Commodity":      string(CatAmountOfMatter),
	"Border":         string(CatFeature),

	// Events and processes
	"Event":         string(CatEvent),
	"Meeting":       string(CatAccomplishment),
	"Election":      string(CatAccomplishment),
	"Negotiation":   string(CatAccomplishment),
	"Campaign":      string(CatAccomplishment),
	"Conflict":      string(CatAccomplishment),
	"Protest":       string(CatAccomplishment),
	"Attack":        string(CatAchievement),
	"Signing":       string(CatAchievement),
	"Announcement":  string(CatAchievement),
	"Disaster":      string(CatEvent),
	"Transaction":   string(CatAchievement),
	"Process":       string(CatProcess),
	"Trend":         string(CatProcess),
	"Reform":        string(CatProcess),
	"Investigation": string(CatProcess),
	"Crisis":        string(CatState),
	"Situation":     string(CatState),

	// Descriptions and information objects
	"Policy":     string(CatDescription),
	"Law":        string(CatDescription),
	"Regulation": string(CatDescription),
	"Treaty":     string(CatDescription),
	"Agreement":  string(CatDescription),
	"Plan":       string(CatDescription),
	"Strategy":   string(CatDescription),
	"Norm":       string(CatDescription),
	"Standard":   string(CatDescription),
	"Document":   string(CatInformationObject),
	"Report":     string(CatInformationObject),
	"Statement":  string(CatInformationObject),
	"Speech":     string(CatInformationObject),
	"Article":    string(CatInformationObject),
	"Dataset":    string(CatInformationObject),
	"Claim":      string(CatProposition),

	// Concepts, beliefs, roles
	"Concept":      string(CatConcept),
	"Role":         string(CatConcept),
	"Position":     string(CatConcept),
	"Technology":   string(CatConcept),
	"BeliefSystem": string(CatMentalObject),
	"Ideology":     string(CatDescription),
	"Religion":     string(CatDescription),
	"Opinion":      string(CatMentalObject),
	"Attitude":     string(CatMentalObject),

	// Qualities and abstract regions
	"Attribute":      string(CatQuality),
	"Status":         string(CatQuality),
	"Sentiment":      string(CatAbstractQuality),
	"Capability":     string(CatQuality),
	"TimePoint":      string(CatTimeInterval),
	"TimeInterval":   string(CatTimeInterval),
	"MonetaryAmount": string(CatAbstractRegion),
	"Percentage":     string(CatAbstractRegion),
	"Quantity":       string(CatAbstractRegion),
}

// RelationMap maps MCL relationship type names to DOLCE relation names.
var RelationMap = map[string]string{
	// Composition and membership
	"partOf":            "part-of",
	"subOrganizationOf": "part-of",
	"happensDuring":     "part-of",
	"containedIn":       "part-of",
	"memberOf":          "member-of",
	"citizenOf":         "member-of",
	"affiliatedWith":    "member-of",
	"madeOf":            "constituted-by",

	// Social ties between endurants
	"leads":            "specifically-depends-on",
	"governs":          "specifically-depends-on",
	"controls":         "specifically-depends-on",
	"owns":             "specifically-depends-on",
	"ownedBy":          "specifically-depends-on",
	"employedBy":       "specifically-depends-on",
	"worksFor":         "specifically-depends-on",
	"foundedBy":        "specifically-depends-on",
	"fundedBy":         "specifically-depends-on",
	"funds":            "specifically-depends-on",
	"supports":         "specifically-depends-on",
	"opposes":          "specifically-depends-on",
	"alliedWith":       "specifically-depends-on",
	"collaboratesWith": "specifically-depends-on",
	"communicatesWith": "specifically-depends-on",
	"negotiatesWith":   "specifically-depends-on",
	"represents":       "specifically-depends-on",
	"succeeds":         "specifically-depends-on",
	"criticizes":       "specifically-depends-on",
	"endorses":         "specifically-depends-on",
	"advocates":        "specifically-depends-on",
	"appointedBy":      "specifically-depends-on",
	"reportsTo":        "specifically-depends-on",
	"amends":           "specifically-depends-on",
	"supersedes":       "specifically-depends-on",
	"believesIn":       "specifically-depends-on",

	// Participation in perdurants
	"participatesIn": "participant-in",
	"attends":        "participant-in",
	"organizes":      "participant-in",
	"initiates":      "participant-in",
	"wins":           "participant-in",
	"loses":          "participant-in",
	"mediates":       "participant-in",
	"involves":       "has-participant",
	"targets":        "has-participant",
	"affects":        "has-participant",

	// Causal and temporal ties between perdurants
	"causes":        "causally-depends-on",
	"causedBy":      "causally-depends-on",
	"resultsIn":     "causally-depends-on",
	"triggers":      "causally-depends-on",
	"escalates":     "causally-depends-on",
	"precedes":      "precedes",
	"follows":       "precedes",
	"occurredOn":    "held-during",
	"effectiveFrom": "held-during",

	// Spatial ties
	"locatedIn":  "located-in",
	"basedIn":    "located-in",
	"occurredIn": "located-in",
	"bordering":  "located-in",

	// Aboutness and information
	"describes":   "about",
	"defines":     "about",
	"references":  "about",
	"regulates":   "about",
	"mandates":    "about",
	"prohibits":   "about",
	"authorizes":  "about",
	"covers":      "about",
	"documents":   "represents",
	"reportsOn":   "represents",
	"expresses":   "expresses",
	"authoredBy":  "generically-depends-on",
	"publishedBy": "generically-depends-on",
	"signedBy":    "generically-depends-on",
	"ratifiedBy":  "generically-depends-on",
	"issuedBy":    "generically-depends-on",

	// Qualities and classification
	"hasAttribute":  "has-quality",
	"hasStatus":     "has-quality",
	"hasSentiment":  "has-quality",
	"attributeOf":   "inherent-in",
	"hasRole":       "classified-by",
	"holdsPosition": "classified-by",
	"instanceOf":    "classified-by",
	"subTypeOf":     "specializes",
}

// entityGlosses gives each MCL entity type a one-line description used to
// build extraction prompts. Types without a gloss are still valid for
// mapping but are not advertised to the LLM.
var entityGlosses = map[string]string{
	"IndividualActor": "a named human being",
	"Organization":    "a company, agency, party, institution, or other formal body",
	"GovernmentBody":  "a state institution such as a ministry, parliament, or court",
	"PoliticalParty":  "a political party or electoral alliance",
	"Company":         "a commercial enterprise",
	"NGO":             "a non-governmental or civil-society organization",
	"MediaOutlet":     "a newspaper, broadcaster, or news site",
	"CollectiveActor": "an informal collective such as a movement, community, or ethnic group",
	"Nation":          "a nation, people, or country acting as a collective",
	"SocialMovement":  "an organized social or protest movement",
	"Coalition":       "an alliance of actors formed for a shared goal",
	"Location":        "a country, region, city, or other named place",
	"Facility":        "a building, plant, base, or piece of infrastructure",
	"Resource":        "a material resource or commodity such as oil, grain, or minerals",
	"Event":           "a discrete occurrence such as an election, attack, meeting, or disaster",
	"Process":         "an ongoing development such as a reform, trend, or investigation",
	"Crisis":          "a persistent adverse condition",
	"Policy":          "a policy, law, regulation, treaty, or other normative description",
	"Agreement":       "a negotiated agreement, deal, or treaty",
	"Document":        "a report, statement, article, dataset, or other information artifact",
	"Claim":           "an assertion whose truth is at issue",
	"Concept":         "an abstract idea, method, or technology",
	"Role":            "a role or position held by an actor",
	"BeliefSystem":    "an ideology, religion, or shared belief system",
	"Attribute":       "a property or status attributed to an entity",
	"TimePoint":       "a date, year, or named period",
	"MonetaryAmount":  "an amount of money",
	"Quantity":        "a numeric quantity or measurement",
}

// relationGlosses mirrors entityGlosses for relationship types.
var relationGlosses = map[string]string{
	"leads":          "source heads or directs target",
	"memberOf":       "source belongs to target collective",
	"partOf":         "source is a component of target",
	"worksFor":       "source is employed by or serves target",
	"ownedBy":        "source is owned or controlled by target",
	"foundedBy":      "source was established by target",
	"locatedIn":      "source is situated in target place",
	"participatesIn": "source takes part in target event or process",
	"organizes":      "source convenes or runs target event",
	"targets":        "target is directed at by source event or action",
	"causes":         "source event or process brings about target",
	"precedes":       "source ends before target begins",
	"occurredOn":     "source is anchored to target date or period",
	"supports":       "source backs or assists target",
	"opposes":        "source acts against target",
	"alliedWith":     "source and target cooperate as allies",
	"regulates":      "source policy or law governs target",
	"defines":        "source description specifies target",
	"references":     "source mentions or cites target",
	"authoredBy":     "source document was produced by target",
	"signedBy":       "source agreement was signed by target",
	"hasAttribute":   "source bears target property or status",
	"hasRole":        "source holds target role or position",
	"instanceOf":     "source is an instance of target concept",
}

// EntityTypes returns all MCL entity type names sorted alphabetically.
func EntityTypes() []string {
	out := make([]string, 0, len(EntityConceptMap))
	for t := range EntityConceptMap {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// RelationTypes returns all MCL relationship type names sorted
// alphabetically.
func RelationTypes() []string {
	out := make([]string, 0, len(RelationMap))
	for t := range RelationMap {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// EntityGloss returns the prompt description for an MCL entity type.
func EntityGloss(entityType string) (string, bool) {
	g, ok := entityGlosses[entityType]
	return g, ok
}

// RelationGloss returns the prompt description for an MCL relationship type.
func RelationGloss(relationType string) (string, bool) {
	g, ok := relationGlosses[relationType]
	return g, ok
}

// PromptEntityTypes returns the MCL entity types that carry glosses, in
// sorted order. Extraction prompts advertise only these.
func PromptEntityTypes() []string {
	out := make([]string, 0, len(entityGlosses))
	for t := range entityGlosses {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// PromptRelationTypes returns the MCL relationship types that carry
// glosses, in sorted order.
func PromptRelationTypes() []string {
	out := make([]string, 0, len(relationGlosses))
	for t := range relationGlosses {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
