package client

import "taskboard/pkg/task"

// Draft is the not-yet-submitted create form.
type Draft struct {
	Title       string
	Description string
}

// State is the client's view of the task list.
type State struct {
	Tasks     []task.Task
	Draft     Draft
	EditingID string // "" when no task is being edited
	Loading   bool
}

// NewState is the state before the first load.
func NewState() State {
	return State{Tasks: []task.Task{}, Loading: true}
}

// Counts derives total, completed and pending from the current list.
func (s State) Counts() task.Counts {
	return task.Count(s.Tasks)
}

// Find returns the task with id and whether it is present.
func (s State) Find(id string) (task.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Action is a state transition fed to Reduce.
type Action interface {
	isAction()
}

type (
	// Loaded replaces the list with a fresh fetch.
	Loaded struct{ Tasks []task.Task }
	// LoadFailed ends loading and leaves the list as it is.
	LoadFailed struct{}
	// DraftChanged edits the create form.
	DraftChanged struct{ Title, Description string }
	// Created puts a server-created task at the head and clears the draft.
	Created struct{ Task task.Task }
	// Updated replaces the task with the same id and leaves edit mode for it.
	Updated struct{ Task task.Task }
	// Deleted drops the task with ID.
	Deleted struct{ ID string }
	EditStarted   struct{ ID string }
	EditCancelled struct{}
)

func (Loaded) isAction()        {}
func (LoadFailed) isAction()    {}
func (DraftChanged) isAction()  {}
func (Created) isAction()       {}
func (Updated) isAction()       {}
func (Deleted) isAction()       {}
func (EditStarted) isAction()   {}
func (EditCancelled) isAction() {}

// Reduce returns the state after a. It never mutates s.Tasks in place.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loaded:
		s.Tasks = append([]task.Task{}, a.Tasks...)
		s.Loading = false
	case LoadFailed:
		s.Loading = false
	case DraftChanged:
		s.Draft = Draft{Title: a.Title, Description: a.Description}
	case Created:
		tasks := make([]task.Task, 0, len(s.Tasks)+1)
		tasks = append(tasks, a.Task)
		s.Tasks = append(tasks, s.Tasks...)
		s.Draft = Draft{}
	case Updated:
		tasks := make([]task.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			if t.ID == a.Task.ID {
				t = a.Task
			}
			tasks[i] = t
		}
		s.Tasks = tasks
		if s.EditingID == a.Task.ID {
			s.EditingID = ""
		}
	case Deleted:
		tasks := make([]task.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				tasks = append(tasks, t)
			}
		}
		s.Tasks = tasks
		if s.EditingID == a.ID {
			s.EditingID = ""
		}
	case EditStarted:
		s.EditingID = a.ID
	case EditCancelled:
		s.EditingID = ""
	}
	return s
}
