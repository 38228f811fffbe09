package api

import "github.com/ppiankov/aletheia/internal/model"

// Endpoint identifies the envelope shape of a report endpoint
type Endpoint string

const (
	EndpointDirect  Endpoint = "direct"  // Body is the analysis object (reader flow)
	EndpointWrapped Endpoint = "wrapped" // Body is {success, message, data: {report, metadata}} (journalist flow)
)

// FieldDefaults are the numeric values used when a payload omits a score
type FieldDefaults struct {
	AuthorCredibility int
	SourceReliability int
	Confidence        int
}

// Defaults supplies every fallback value the client needs
type Defaults interface {
	// Fields returns the numeric defaults for the given endpoint
	Fields(endpoint Endpoint) FieldDefaults

	// Articles returns the local trending list used when the service is unreachable
	Articles() []model.Article

	// SampleRecord returns a complete example report for the mode
	SampleRecord(mode model.UserMode) model.AnalysisRecord
}

// StaticDefaults is the built-in Defaults implementation
type StaticDefaults struct{}

var _ Defaults = StaticDefaults{}

// Fields returns author 75 and source 68 for both endpoints; confidence is 80 on the
// direct endpoint and 82 on the wrapped one.
func (StaticDefaults) Fields(endpoint Endpoint) FieldDefaults {
	d := FieldDefaults{
		AuthorCredibility: 75,
		SourceReliability: 68,
		Confidence:        80,
	}
	if endpoint == EndpointWrapped {
		d.Confidence = 82
	}
	return d
}

// Articles returns a fresh copy of the mock trending list
func (StaticDefaults) Articles() []model.Article {
	return []model.Article{
		{
			ID:               "1",
			Title:            "Climate Change Impacts on Global Economy",
			Description:      "Analysis of economic effects from climate change across different sectors",
			CredibilityScore: 87,
			Category:         "Sustainability",
			Source:           "Environmental Research Institute",
		},
		{
			ID:               "2",
			Title:            "Political Trends in Democratic Institutions",
			Description:      "Examining shifts in democratic participation and institutional trust",
			CredibilityScore: 75,
			Category:         "Politics",
			Source:           "Political Science Quarterly",
		},
		{
			ID:               "3",
			Title:            "Technology's Role in Modern Education",
			Description:      "How digital transformation is reshaping learning environments",
			CredibilityScore: 92,
			Category:         "Academic",
			Source:           "Educational Technology Review",
		},
		{
			ID:               "4",
			Title:            "Global Sports Industry Financial Analysis",
			Description:      "Economic trends and market dynamics in professional sports",
			CredibilityScore: 68,
			Category:         "Sports",
			Source:           "Sports Business Journal",
		},
		{
			ID:               "5",
			Title:            "Luxury Market Consumer Behavior Study",
			Description:      "Understanding purchasing patterns in high-end consumer markets",
			CredibilityScore: 81,
			Category:         "Worlds of Luxury",
			Source:           "Luxury Market Research",
		},
	}
}

// SampleRecord returns the example climate-economy report. The journalist variant
// is longer and carries citation URLs.
func (StaticDefaults) SampleRecord(mode model.UserMode) model.AnalysisRecord {
	if mode == model.ModeJournalist {
		return model.AnalysisRecord{
			AuthorCredibilityScore: 75,
			SourceReliabilityScore: 68,
			Citations: []string{
				"Climate Change 2023: Synthesis Report. IPCC, 2023. https://www.ipcc.ch/report/ar6/syr/",
				"Global Economic Impact of Climate Change. World Bank, 2022. https://www.worldbank.org/climate-report",
				"McKinsey Global Institute. Climate risk and response in Asia. 2023.",
			},
			BiasReport: model.BiasReport{
				SentimentDistribution: []string{"Neutral", "Concern", "Urgency"},
				BiasClassification:    "Moderate Left-leaning",
			},
			EvidenceContradictions: "While the article presents compelling data on climate impacts, it understates the role of technological innovation in mitigation efforts. Recent studies show renewable energy costs have dropped 70% faster than predicted, which contradicts the pessimistic timeline presented.",
			ManipulationTechniques: []string{
				"Cherry-picking of data points",
				"Appeal to fear through catastrophic scenarios",
				"False dichotomy between economic growth and environmental protection",
				"Selective citation of studies",
			},
			ModelScore: model.ModelScore{
				Confidence:  82,
				KeyFeatures: "High-quality scientific citations, peer-reviewed sources, transparent methodology, but limited perspective on technological solutions and economic adaptation strategies.",
			},
			GeneralOverview: "This analysis examines claims about climate change impacts on the global economy. The content demonstrates strong factual grounding with credible scientific sources, though it shows a moderate bias toward emphasizing negative impacts while underemphasizing adaptive capacity and technological solutions. The author's credentials are solid, and the source reliability is above average.",
			ToolsUsed:       []string{"Sentiment Analysis", "Bias Detection", "Fact Verification", "Source Credibility Assessment", "Citation Analysis"},
		}
	}

	return model.AnalysisRecord{
		AuthorCredibilityScore: 75,
		SourceReliabilityScore: 68,
		Citations: []string{
			"Climate Change 2023: Synthesis Report. IPCC, 2023.",
			"Global Economic Impact of Climate Change. World Bank, 2022.",
			"McKinsey Global Institute. Climate risk and response in Asia. 2023.",
		},
		BiasReport: model.BiasReport{
			SentimentDistribution: []string{"Neutral", "Concern"},
			BiasClassification:    "Moderate Left-leaning",
		},
		EvidenceContradictions: "The article presents strong data on climate impacts but may underestimate technological solutions that could mitigate some negative effects.",
		ManipulationTechniques: []string{
			"Cherry-picking of data points",
			"Appeal to fear scenarios",
		},
		ModelScore: model.ModelScore{
			Confidence:  82,
			KeyFeatures: "High-quality scientific citations and transparent methodology, but limited perspective on solutions.",
		},
		GeneralOverview: "This analysis shows the content has strong factual grounding with credible sources, though it shows a moderate bias toward emphasizing negative impacts while underemphasizing adaptive solutions.",
		ToolsUsed:       []string{"Sentiment Analysis", "Bias Detection", "Fact Verification"},
	}
}
