// Package access decides which callers may see and change which tasks.
package access

import "github.com/Yash-Soni1/node-crew/models"

// CanViewAll reports whether the caller sees every task rather than only
// the ones assigned to them.
func CanViewAll(caller models.Caller) bool {
	return caller.IsAdmin()
}

// CanMutateChecklistOrStatus reports whether the caller may replace the
// checklist or set the status of task.
func CanMutateChecklistOrStatus(caller models.Caller, task *models.Task) bool {
	return caller.IsAdmin() || task.IsAssignedTo(caller.ID)
}

// CanMutateStructure reports whether the caller may create, edit the
// structural fields of, or delete task. Ownership through createdBy does not
// grant it on its own.
func CanMutateStructure(caller models.Caller, task *models.Task) bool {
	return caller.IsAdmin()
}
