package ontology

import "sort"

// Category identifies a node in the DOLCE category tree.
type Category string

// DOLCE categories. The tree is rooted at CatParticular; every other
// category has exactly one parent in categoryParent.
const (
	CatParticular Category = "particular"

	// Endurants: wholly present at any time they exist.
	CatEndurant                  Category = "endurant"
	CatPhysicalEndurant          Category = "physical-endurant"
	CatAmountOfMatter            Category = "amount-of-matter"
	CatPhysicalObject            Category = "physical-object"
	CatAgentivePhysicalObject    Category = "agentive-physical-object"
	CatNonAgentivePhysicalObject Category = "non-agentive-physical-object"
	CatFeature                   Category = "feature"
	CatNonPhysicalEndurant       Category = "non-physical-endurant"
	CatNonPhysicalObject         Category = "non-physical-object"
	CatMentalObject              Category = "mental-object"
	CatSocialObject              Category = "social-object"
	CatAgentiveSocialObject      Category = "agentive-social-object"
	CatSocialAgent               Category = "social-agent"
	CatSociety                   Category = "society"
	CatNonAgentiveSocialObject   Category = "non-agentive-social-object"
	CatConcept                   Category = "concept"
	CatDescription               Category = "description"
	CatInformationObject         Category = "information-object"
	CatPlace                     Category = "place"

	// Perdurants: happen in time, extend through it.
	CatPerdurant      Category = "perdurant"
	CatEvent          Category = "event"
	CatAchievement    Category = "achievement"
	CatAccomplishment Category = "accomplishment"
	CatStative        Category = "stative"
	CatState          Category = "state"
	CatProcess        Category = "process"

	// Qualities: inhere in other particulars.
	CatQuality         Category = "quality"
	CatPhysicalQuality Category = "physical-quality"
	CatTemporalQuality Category = "temporal-quality"
	CatAbstractQuality Category = "abstract-quality"

	// Abstracts: outside space and time.
	CatAbstract       Category = "abstract"
	CatRegion         Category = "region"
	CatTemporalRegion Category = "temporal-region"
	CatTimeInterval   Category = "time-interval"
	CatPhysicalRegion Category = "physical-region"
	CatAbstractRegion Category = "abstract-region"
	CatSet            Category = "set"
	CatProposition    Category = "proposition"
)

// categoryParent maps each category to its direct super-category.
// CatParticular is the root and has no entry.
var categoryParent = map[Category]Category{
	CatEndurant:                  CatParticular,
	CatPhysicalEndurant:          CatEndurant,
	CatAmountOfMatter:            CatPhysicalEndurant,
	CatPhysicalObject:            CatPhysicalEndurant,
	CatAgentivePhysicalObject:    CatPhysicalObject,
	CatNonAgentivePhysicalObject: CatPhysicalObject,
	CatFeature:                   CatPhysicalEndurant,
	CatNonPhysicalEndurant:       CatEndurant,
	CatNonPhysicalObject:         CatNonPhysicalEndurant,
	CatMentalObject:              CatNonPhysicalObject,
	CatSocialObject:              CatNonPhysicalObject,
	CatAgentiveSocialObject:      CatSocialObject,
	CatSocialAgent:               CatAgentiveSocialObject,
	CatSociety:                   CatAgentiveSocialObject,
	CatNonAgentiveSocialObject:   CatSocialObject,
	CatConcept:                   CatNonAgentiveSocialObject,
	CatDescription:               CatNonAgentiveSocialObject,
	CatInformationObject:         CatNonAgentiveSocialObject,
	CatPlace:                     CatNonAgentiveSocialObject,

	CatPerdurant:      CatParticular,
	CatEvent:          CatPerdurant,
	CatAchievement:    CatEvent,
	CatAccomplishment: CatEvent,
	CatStative:        CatPerdurant,
	CatState:          CatStative,
	CatProcess:        CatStative,

	CatQuality:         CatParticular,
	CatPhysicalQuality: CatQuality,
	CatTemporalQuality: CatQuality,
	CatAbstractQuality: CatQuality,

	CatAbstract:       CatParticular,
	CatRegion:         CatAbstract,
	CatTemporalRegion: CatRegion,
	CatTimeInterval:   CatTemporalRegion,
	CatPhysicalRegion: CatRegion,
	CatAbstractRegion: CatRegion,
	CatSet:            CatAbstract,
	CatProposition:    CatAbstract,
}

// Valid reports whether c is a known DOLCE category.
func (c Category) Valid() bool {
	if c == CatParticular {
		return true
	}
	_, ok := categoryParent[c]
	return ok
}

// Parent returns the direct super-category of c. The root category and
// unknown categories have no parent.
func (c Category) Parent() (Category, bool) {
	p, ok := categoryParent[c]
	return p, ok
}

// Is reports whether c equals ancestor or lies below it in the category
// tree. The check is reflexive: every category Is itself.
func (c Category) Is(ancestor Category) bool {
	if !c.Valid() || !ancestor.Valid() {
		return false
	}
	for {
		if c == ancestor {
			return true
		}
		p, ok := categoryParent[c]
		if !ok {
			return false
		}
		c = p
	}
}

// Depth returns the number of edges between c and the root category.
// Unknown categories return -1.
func (c Category) Depth() int {
	if !c.Valid() {
		return -1
	}
	d := 0
	for {
		p, ok := categoryParent[c]
		if !ok {
			return d
		}
		c = p
		d++
	}
}

// Categories returns all known categories sorted by name.
func Categories() []Category {
	out := make([]Category, 0, len(categoryParent)+1)
	out = append(out, CatParticular)
	for c := range categoryParent {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RelationKind classifies a DOLCE relation by the kind of tie it expresses.
type RelationKind string

// Relation kinds.
const (
	KindParthood      RelationKind = "parthood"
	KindConstitution  RelationKind = "constitution"
	KindParticipation RelationKind = "participation"
	KindDependence    RelationKind = "dependence"
	KindQuality       RelationKind = "quality"
	KindSpatial       RelationKind = "spatial"
	KindTemporal      RelationKind = "temporal"
	KindAboutness     RelationKind = "aboutness"
	KindTaxonomic     RelationKind = "taxonomic"
)

// Concept is a DOLCE concept record. Name doubles as the concept's lookup
// key; for the core taxonomy it matches the category name.
type Concept struct {
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Definition string   `json:"definition"`
	Parents    []string `json:"parents,omitempty"`
	Children   []string `json:"children,omitempty"`
	// Properties lists attribute keys an instance of this concept is
	// expected to carry. Missing keys surface as constraint issues.
	Properties []string `json:"properties,omitempty"`
	// Constraints are human-readable notes checked by name against an
	// instance's attribute map.
	Constraints []string `json:"constraints,omitempty"`
}

// Relation is a DOLCE relation record with domain/range categories.
type Relation struct {
	Name       string       `json:"name"`
	Kind       RelationKind `json:"kind"`
	Domain     Category     `json:"domain"`
	Range      Category     `json:"range"`
	Definition string       `json:"definition"`
	Symmetric  bool         `json:"symmetric,omitempty"`
	Transitive bool         `json:"transitive,omitempty"`
}

// concepts is the concept table, keyed by concept name. Built once in
// init from conceptList; read-only afterwards.
var concepts = map[string]Concept{}

// conceptList declares the DOLCE concepts that MCL entity types map onto.
// Parents/Children are filled in from the category tree during init.
var conceptList = []Concept{
	{
		Name:       string(CatAgentivePhysicalObject),
		Category:   CatAgentivePhysicalObject,
		Definition: "A physical object with intentionality, such as a human being.",
		Properties: []string{"name"},
		Constraints: []string{
			"must be spatially located",
			"bears agentive capacity",
		},
	},
	{
		Name:       string(CatNonAgentivePhysicalObject),
		Category:   CatNonAgentivePhysicalObject,
		Definition: "A physical object without intentionality, such as an artifact or natural body.",
		Properties: []string{"name"},
		Constraints: []string{
			"must be spatially located",
		},
	},
	{
		Name:       string(CatAmountOfMatter),
		Category:   CatAmountOfMatter,
		Definition: "A mereologically invariant stuff, such as a quantity of oil or grain.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatFeature),
		Category:   CatFeature,
		Definition: "A dependent place or part of a physical object, such as an edge or a border.",
		Properties: []string{"name", "host"},
		Constraints: []string{
			"requires a host object",
		},
	},
	{
		Name:       string(CatSocialAgent),
		Category:   CatSocialAgent,
		Definition: "A socially constructed agent, such as an organization acting as a legal person.",
		Properties: []string{"name"},
		Constraints: []string{
			"depends on a community of intentional agents",
		},
	},
	{
		Name:       string(CatSociety),
		Category:   CatSociety,
		Definition: "A collective of agents with an internal structure, such as a nation or a movement.",
		Properties: []string{"name"},
		Constraints: []string{
			"has members",
		},
	},
	{
		Name:       string(CatConcept),
		Category:   CatConcept,
		Definition: "A socially shared classification device, such as a role or an abstract notion.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatDescription),
		Category:   CatDescription,
		Definition: "A social object that defines or constrains other entities, such as a law, norm, or plan.",
		Properties: []string{"name"},
		Constraints: []string{
			"must be expressed by some information object",
		},
	},
	{
		Name:       string(CatInformationObject),
		Category:   CatInformationObject,
		Definition: "An information realization independent of its carrier, such as a document or dataset.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatPlace),
		Category:   CatPlace,
		Definition: "A socially determined location, such as a country, city, or named territory.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatMentalObject),
		Category:   CatMentalObject,
		Definition: "A non-physical endurant dependent on a single agent, such as a belief or attitude.",
		Properties: []string{"name", "holder"},
		Constraints: []string{
			"depends on exactly one intentional agent",
		},
	},
	{
		Name:       string(CatEvent),
		Category:   CatEvent,
		Definition: "A perdurant that culminates, such as an election or an attack.",
		Properties: []string{"name"},
		Constraints: []string{
			"has temporal extent",
		},
	},
	{
		Name:       string(CatAchievement),
		Category:   CatAchievement,
		Definition: "An atomic event, such as a signing or a declaration.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatAccomplishment),
		Category:   CatAccomplishment,
		Definition: "A non-atomic event with internal structure, such as a negotiation or a campaign.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatProcess),
		Category:   CatProcess,
		Definition: "A cumulative perdurant without a built-in culmination, such as a trend or reform process.",
		Properties: []string{"name"},
		Constraints: []string{
			"has temporal extent",
		},
	},
	{
		Name:       string(CatState),
		Category:   CatState,
		Definition: "A homogeneous perdurant, such as a crisis persisting over time.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatQuality),
		Category:   CatQuality,
		Definition: "An individual attribute inhering in a particular, such as a status or a sentiment.",
		Properties: []string{"name", "bearer"},
		Constraints: []string{
			"inheres in exactly one particular",
		},
	},
	{
		Name:       string(CatAbstractQuality),
		Category:   CatAbstractQuality,
		Definition: "A quality of a non-physical particular, such as the strength of an ideology.",
		Properties: []string{"name", "bearer"},
	},
	{
		Name:       string(CatTimeInterval),
		Category:   CatTimeInterval,
		Definition: "A region of time, such as a date, year, or era.",
		Properties: []string{"name"},
	},
	{
		Name:       string(CatAbstractRegion),
		Category:   CatAbstractRegion,
		Definition: "A value region for abstract qualities, such as a monetary amount or a percentage.",
		Properties: []string{"name", "value"},
	},
	{
		Name:       string(CatProposition),
		Category:   CatProposition,
		Definition: "An abstract truth-bearer, such as the content of a claim.",
		Properties: []string{"name"},
	},
}

// relations is the relation table, keyed by relation name.
var relations = map[string]Relation{}

// relationList declares the DOLCE relations that MCL relationship types
// map onto. Domain and Range are categories; validation checks mapped
// entity categories against them via Category.Is.
var relationList = []Relation{
	{
		Name:       "part-of",
		Kind:       KindParthood,
		Domain:     CatParticular,
		Range:      CatParticular,
		Definition: "The part stands in mereological parthood to the whole.",
		Transitive: true,
	},
	{
		Name:       "member-of",
		Kind:       KindParthood,
		Domain:     CatEndurant,
		Range:      CatSociety,
		Definition: "An agent belongs to a structured collective.",
	},
	{
		Name:       "constituted-by",
		Kind:       KindConstitution,
		Domain:     CatPhysicalEndurant,
		Range:      CatAmountOfMatter,
		Definition: "A physical endurant is made of an amount of matter.",
	},
	{
		Name:       "participant-in",
		Kind:       KindParticipation,
		Domain:     CatEndurant,
		Range:      CatPerdurant,
		Definition: "An endurant takes part in a perdurant.",
	},
	{
		Name:       "has-participant",
		Kind:       KindParticipation,
		Domain:     CatPerdurant,
		Range:      CatEndurant,
		Definition: "A perdurant has an endurant taking part in it.",
	},
	{
		Name:       "specifically-depends-on",
		Kind:       KindDependence,
		Domain:     CatEndurant,
		Range:      CatEndurant,
		Definition: "One endurant cannot exist without a specific other endurant.",
	},
	{
		Name:       "generically-depends-on",
		Kind:       KindDependence,
		Domain:     CatNonPhysicalEndurant,
		Range:      CatParticular,
		Definition: "A non-physical endurant requires some particular of a kind to exist.",
	},
	{
		Name:       "causally-depends-on",
		Kind:       KindDependence,
		Domain:     CatPerdurant,
		Range:      CatPerdurant,
		Definition: "A perdurant is brought about by another perdurant.",
	},
	{
		Name:       "has-quality",
		Kind:       KindQuality,
		Domain:     CatParticular,
		Range:      CatQuality,
		Definition: "A particular bears an individual quality.",
	},
	{
		Name:       "inherent-in",
		Kind:       KindQuality,
		Domain:     CatQuality,
		Range:      CatParticular,
		Definition: "A quality inheres in its bearer.",
	},
	{
		Name:       "located-in",
		Kind:       KindSpatial,
		Domain:     CatParticular,
		Range:      CatPlace,
		Definition: "A particular is situated at a socially determined place.",
	},
	{
		Name:       "precedes",
		Kind:       KindTemporal,
		Domain:     CatPerdurant,
		Range:      CatPerdurant,
		Definition: "One perdurant ends before another begins.",
		Transitive: true,
	},
	{
		Name:       "held-during",
		Kind:       KindTemporal,
		Domain:     CatParticular,
		Range:      CatTimeInterval,
		Definition: "A particular is anchored to a region of time.",
	},
	{
		Name:       "represents",
		Kind:       KindAboutness,
		Domain:     CatInformationObject,
		Range:      CatParticular,
		Definition: "An information object stands for another particular.",
	},
	{
		Name:       "about",
		Kind:       KindAboutness,
		Domain:     CatNonAgentiveSocialObject,
		Range:      CatParticular,
		Definition: "A description or information object is about a particular.",
	},
	{
		Name:       "expresses",
		Kind:       KindAboutness,
		Domain:     CatInformationObject,
		Range:      CatDescription,
		Definition: "An information object expresses a description.",
	},
	{
		Name:       "classified-by",
		Kind:       KindTaxonomic,
		Domain:     CatParticular,
		Range:      CatConcept,
		Definition: "A concept classifies a particular, typically a role classifying an agent.",
	},
	{
		Name:       "specializes",
		Kind:       KindTaxonomic,
		Domain:     CatConcept,
		Range:      CatConcept,
		Definition: "A concept refines another concept.",
		Transitive: true,
	},
}

func init() {
	for _, c := range conceptList {
		if p, ok := c.Category.Parent(); ok {
			c.Parents = []string{string(p)}
		}
		concepts[c.Name] = c
	}
	// Children links are derived from the declared concepts only, so the
	// taxonomy export mirrors what is actually addressable.
	for name, c := range concepts {
		if len(c.Parents) == 0 {
			continue
		}
		parent := c.Parents[0]
		if pc, ok := concepts[parent]; ok {
			pc.Children = append(pc.Children, name)
			concepts[parent] = pc
		}
	}
	for name := range concepts {
		c := concepts[name]
		sort.Strings(c.Children)
		concepts[name] = c
	}
	for _, r := range relationList {
		relations[r.Name] = r
	}
}

// LookupConcept returns the concept record for name.
func LookupConcept(name string) (Concept, bool) {
	c, ok := concepts[name]
	return c, ok
}

// LookupRelation returns the relation record for name.
func LookupRelation(name string) (Relation, bool) {
	r, ok := relations[name]
	return r, ok
}

// ConceptNames returns all concept names sorted alphabetically.
func ConceptNames() []string {
	out := make([]string, 0, len(concepts))
	for n := range concepts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RelationNames returns all relation names sorted alphabetically.
func RelationNames() []string {
	out := make([]string, 0, len(relations))
	for n := range relations {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
