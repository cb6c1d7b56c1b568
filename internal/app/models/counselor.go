package models

// Counselor defines the staff record stored in the 'counselors' table
type Counselor struct {
	ID        string   `json:"id" db:"id" bson:"_id,omitempty"`
	Role      RoleType `json:"role" db:"role" bson:"role"`
	MenteeIDs []string `json:"mentees" db:"mentee_ids" bson:"mentees"`
	// Version is bumped on every mentee change and guards concurrent appends.
	Version int64 `json:"-" db:"version" bson:"version"`
}

// Load is the number of mentees currently assigned.
func (c *Counselor) Load() int {
	return len(c.MenteeIDs)
}

// HasMentee reports whether studentID is already listed.
func (c *Counselor) HasMentee(studentID string) bool {
	for _, id := range c.MenteeIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
