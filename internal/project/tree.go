// Package project orchestrates the project-detail surface: loading the
// related resource set, deriving the task tree, gating edits, rolling up
// finances and exporting payments.
package project

import "craftforge/internal/api"

// Fallback labels for tasks missing catalog names.
const (
	FallbackGroupName   = "Genel"
	FallbackSubtaskName = "İşlem"
)

type SubtaskNode struct {
	Name      string
	Tasks     []api.Task
	Completed int
	Progress  float64
}

type GroupNode struct {
	Name      string
	Subtasks  []SubtaskNode
	Total     int
	Completed int
	Progress  float64
}

// BuildTree derives the two-level display tree from a flat task list:
// group name, then subtask name, then tasks. Groups and subtasks keep
// first-appearance order; every task lands in exactly one leaf. Missing
// names fall back to the literal labels above.
func BuildTree(tasks []api.Task) []GroupNode {
	var groups []GroupNode
	groupIdx := make(map[string]int)

	for _, t := range tasks {
		gname := t.GroupName
		if gname == "" {
			gname = FallbackGroupName
		}
		sname := t.SubtaskName
		if sname == "" {
			sname = FallbackSubtaskName
		}

		gi, ok := groupIdx[gname]
		if !ok {
			gi = len(groups)
			groupIdx[gname] = gi
			groups = append(groups, GroupNode{Name: gname})
		}
		g := &groups[gi]

		si := -1
		for i := range g.Subtasks {
			if g.Subtasks[i].Name == sname {
				si = i
				break
			}
		}
		if si < 0 {
			si = len(g.Subtasks)
			g.Subtasks = append(g.Subtasks, SubtaskNode{Name: sname})
		}
		g.Subtasks[si].Tasks = append(g.Subtasks[si].Tasks, t)
	}

	for gi := range groups {
		g := &groups[gi]
		for si := range g.Subtasks {
			s := &g.Subtasks[si]
			for _, t := range s.Tasks {
				if t.Status == api.TaskTamamlandi {
					s.Completed++
				}
			}
			s.Progress = percent(s.Completed, len(s.Tasks))
			g.Total += len(s.Tasks)
			g.Completed += s.Completed
		}
		g.Progress = percent(g.Completed, g.Total)
	}
	return groups
}

// Progress returns the overall completion percentage across all tasks.
func Progress(tasks []api.Task) float64 {
	completed := 0
	for _, t := range tasks {
		if t.Status == api.TaskTamamlandi {
			completed++
		}
	}
	return percent(completed, len(tasks))
}

func percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
