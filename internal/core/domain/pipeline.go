package domain

// PipelineStage is a workflow step with its backend-assigned identifier.
type PipelineStage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pipeline is a CRM workflow and its ordered stages.
type Pipeline struct {
	Name   string          `json:"name"`
	Stages []PipelineStage `json:"stages"`
}

// FindPipeline returns the pipeline with the given name.
func FindPipeline(pipelines []Pipeline, name string) (Pipeline, bool) {
	for _, p := range pipelines {
		if p.Name == name {
			return p, true
		}
	}
	return Pipeline{}, false
}

// StageByName returns the stage whose name matches exactly.
func (p Pipeline) StageByName(name string) (PipelineStage, bool) {
	for _, s := range p.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return PipelineStage{}, false
}
