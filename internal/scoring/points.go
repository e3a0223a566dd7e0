package scoring

import "github.com/sakif/studyquest/internal/model"

// ApplyCompletionToggle updates the user's total after a task's completed
// flag has flipped. completed is the task's NEW state: true adds points,
// false takes them back. Level is recomputed from the new total.
//
// The caller must persist the task flag and the user row in the same
// transaction.
func ApplyCompletionToggle(user *model.User, points int, completed bool) {
	if completed {
		user.TotalPoints += points
	} else {
		user.TotalPoints -= points
	}
	user.Level = CalculateLevel(user.TotalPoints)
}

// ReverseOnDelete removes a completed task's contribution from its owner.
// Deleting an incomplete task changes nothing. It reports whether the user
// was modified, so the caller can skip the user update otherwise.
func ReverseOnDelete(user *model.User, task *model.Task) bool {
	if !task.Completed {
		return false
	}
	user.TotalPoints -= task.Points()
	user.Level = CalculateLevel(user.TotalPoints)
	return true
}
