// Package leaderboard ranks users and projects by completed work.
//
// Two aggregations exist and are deliberately kept apart: the user ranking
// sums quality scores, the project ranking averages them. Both rank by the
// number of completed tasks.
package leaderboard

import "sort"

type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
)

// Subject is a rankable user or project.
type Subject struct {
	ID   uint64
	Name string
}

// CompletedTask is the slice of a completed task the rankings need.
type CompletedTask struct {
	ProjectID    uint64
	AssignedTo   *uint64
	QualityScore *float64
}

type Entry struct {
	ID             uint64
	Name           string
	CompletedTasks int
	Score          float64
}

// RankUsers scores each user by the sum of quality scores over the
// completed tasks assigned to them. Missing scores count as zero; tasks
// without an assignee are ignored.
func RankUsers(users []Subject, tasks []CompletedTask) []Entry {
	counts := make(map[uint64]int, len(users))
	sums := make(map[uint64]float64, len(users))

	for _, task := range tasks {
		if task.AssignedTo == nil {
			continue
		}
		id := *task.AssignedTo
		counts[id]++
		if task.QualityScore != nil {
			sums[id] += *task.QualityScore
		}
	}

	entries := make([]Entry, len(users))
	for i, user := range users {
		entries[i] = Entry{
			ID:             user.ID,
			Name:           user.Name,
			CompletedTasks: counts[user.ID],
			Score:          sums[user.ID],
		}
	}

	sortByCompleted(entries)
	return entries
}

// RankProjects scores each project by the average quality score of its
// completed tasks. Tasks without a score are left out of the average; a
// project with no scored task scores zero.
func RankProjects(projects []Subject, tasks []CompletedTask) []Entry {
	counts := make(map[uint64]int, len(projects))
	sums := make(map[uint64]float64, len(projects))
	scored := make(map[uint64]int, len(projects))

	for _, task := range tasks {
		counts[task.ProjectID]++
		if task.QualityScore != nil {
			sums[task.ProjectID] += *task.QualityScore
			scored[task.ProjectID]++
		}
	}

	entries := make([]Entry, len(projects))
	for i, project := range projects {
		var avg float64
		if n := scored[project.ID]; n > 0 {
			avg = sums[project.ID] / float64(n)
		}
		entries[i] = Entry{
			ID:             project.ID,
			Name:           project.Name,
			CompletedTasks: counts[project.ID],
			Score:          avg,
		}
	}

	sortByCompleted(entries)
	return entries
}

// sortByCompleted orders descending by completed count; ties keep input order.
func sortByCompleted(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedTasks > entries[j].CompletedTasks
	})
}
