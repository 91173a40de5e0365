package domain

// The seven coarse classes every article ends up in.
const (
	ClassGenAIProcessing = "LLM & GenAI pour le traitement des données"
	ClassDataQuality     = "Qualité & Préparation des données avec IA"
	ClassRetrieval       = "Retrieval & Connaissances augmentées pour données"
	ClassTraining        = "Adaptation & Entraînement sur données massives"
	ClassArchitecture    = "Architecture & Infrastructures data-centric AI"
	ClassObservability   = "Observabilité, Gouvernance & Ops"
	ClassWatchTrends     = "Veille, tendances & synthèse"
)

// DefaultCategory is assigned when no classification capability is
// available or the model produced nothing usable.
const DefaultCategory = "Autres sujets IA"

// Classes lists the coarse classes in presentation order.
var Classes = []string{
	ClassGenAIProcessing,
	ClassDataQuality,
	ClassRetrieval,
	ClassTraining,
	ClassArchitecture,
	ClassObservability,
	ClassWatchTrends,
}

// categoryToClass maps each fine category to exactly one coarse class.
var categoryToClass = map[string]string{
	"LLM for ETL & Data Pipelines":                   ClassGenAIProcessing,
	"AI Agents for Data Processing":                  ClassGenAIProcessing,
	"Prompt Engineering & LLM Automation for Data":   ClassGenAIProcessing,

	"Data Quality AI & Validation":                   ClassDataQuality,
	"Data Cleaning & Enrichment with LLMs":           ClassDataQuality,
	"Synthetic Data & Privacy-Preserving Generation": ClassDataQuality,

	"RAG & Retrieval for Enterprise Data":            ClassRetrieval,
	"Embeddings & Vector Models for Data":            ClassRetrieval,
	"Graph RAG & Knowledge Graphs in Data Lakes":     ClassRetrieval,

	"Fine-tuning & PEFT on Data Lakes":               ClassTraining,
	"Foundation & Multimodal Models for Data Tasks":  ClassTraining,
	"Emerging Algorithms & Novel Approaches for Data": ClassTraining,

	"AI-Ready Data & Data Lakes Modernization":       ClassArchitecture,
	"Lakehouse for GenAI & LLM Workloads":            ClassArchitecture,
	"Real-Time Data Processing with AI":              ClassArchitecture,

	"Data Observability & LLM Monitoring":            ClassObservability,
	"Data Governance, Lineage & Compliance for AI":   ClassObservability,
	"MLOps / LLMOps for Data Pipelines":              ClassObservability,

	"Trends & Emerging Models in LLM for Data":       ClassWatchTrends,
	"Best Practices & Reference Architectures":       ClassWatchTrends,
	"Tools, Frameworks & Platforms for LLM-Data":     ClassWatchTrends,
	"Autre / Hors-thème":                             ClassWatchTrends,
}

// ClassFor resolves the coarse class for a fine category. It is total:
// empty or unknown categories fall into the watch-and-trends bucket.
func ClassFor(category string) string {
	if class, ok := categoryToClass[category]; ok {
		return class
	}
	return ClassWatchTrends
}

// Categories returns every known fine category.
func Categories() []string {
	out := make([]string, 0, len(categoryToClass))
	for cat := range categoryToClass {
		out = append(out, cat)
	}
	return out
}
