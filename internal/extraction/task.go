// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extraction runs prompt-driven extraction tasks against a
// retrieval index and parses the model output into structured records.
package extraction

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/spo-extractor/pkg/types"
)

// LoadTasks reads the extraction task list from a JSON file. Every task
// must carry an ID and an instruction; the schema is kept verbatim for
// the prompt.
func LoadTasks(path string) ([]types.ExtractionTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	var tasks []types.ExtractionTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing tasks file %s: %w", path, err)
	}

	for i, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("task %d in %s has no id", i, path)
		}
		if t.Instruction == "" {
			return nil, fmt.Errorf("task %q has no instruction", t.ID)
		}
	}
	return tasks, nil
}

// LoadTableTask reads the single table-extraction task definition.
func LoadTableTask(path string) (types.TableTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TableTask{}, fmt.Errorf("reading table task file: %w", err)
	}

	var task types.TableTask
	if err := json.Unmarshal(data, &task); err != nil {
		return types.TableTask{}, fmt.Errorf("parsing table task file %s: %w", path, err)
	}
	if task.Description == "" {
		return types.TableTask{}, fmt.Errorf("table task in %s has no description", path)
	}
	return task, nil
}
