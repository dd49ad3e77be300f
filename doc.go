// DrugFlow - Multi-Agent Drug Discovery Pipelines in Go
//
// DrugFlow coordinates specialized agents over public chemistry and biology
// databases to screen drug candidates. A graph-based workflow carries each
// compound through design analysis, ADMET screening, validation, and an
// approval decision, with checkpointing so interrupted runs can resume. A
// network-driven pipeline maps a disease onto KEGG pathways, scores targets
// by network vulnerability, and screens ChEMBL compounds against the most
// vulnerable ones.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/moleculab/drugflow
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/moleculab/drugflow/agent"
//		"github.com/moleculab/drugflow/discovery"
//		"github.com/moleculab/drugflow/llm"
//		"github.com/moleculab/drugflow/tool"
//	)
//
//	func main() {
//		summarizer, _ := llm.New(llm.WithAPIKey("sk-..."))
//		pubchem := tool.NewPubChem()
//
//		workflow, _ := discovery.NewWorkflow(
//			agent.NewDesignAgent(pubchem, summarizer, ""),
//			agent.NewADMETAgent(pubchem),
//			agent.NewValidationAgent(summarizer),
//			agent.NewApprovalAgent(summarizer),
//		)
//
//		state, _ := workflow.AnalyzeCompound(context.Background(), "aspirin", "PTGS2")
//		fmt.Println(state.FinalDecision)
//	}
//
// # Packages
//
//   - graph: generic state graph executor with conditional edges, retry
//     policies, streaming, and checkpoint-based resume
//   - agent: discovery, design, ADMET, validation, approval, and controller
//     agents
//   - tool: PubChem, ChEMBL, PubMed, KEGG, and AlphaFold clients
//   - chem: molecular descriptors and rule-based ADMET evaluation
//   - network: disease network construction and centrality-based target
//     scoring
//   - discovery: the compound analysis workflow and the multi-target
//     pipeline
//   - store: checkpoint and candidate persistence (memory, SQLite, Redis,
//     Postgres)
//   - report: Markdown and sanitized HTML run reports
package drugflow
