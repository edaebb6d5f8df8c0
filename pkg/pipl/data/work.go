// pkg/pipl/data/work.go
package data

// Job is employment information of a person. DateRange covers the time
// the person held the job.
type Job struct {
	FieldMetadata
	Title        string     `json:"title,omitempty"`
	Organization string     `json:"organization,omitempty"`
	Industry     string     `json:"industry,omitempty"`
	DateRange    *DateRange `json:"date_range,omitempty"`
	Display      string     `json:"display,omitempty"`
}

func (Job) isField() {}

func (j Job) String() string {
	return j.Display
}

// Education is schooling information of a person. DateRange covers the
// time the person was studying.
type Education struct {
	FieldMetadata
	Degree    string     `json:"degree,omitempty"`
	School    string     `json:"school,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
	Display   string     `json:"display,omitempty"`
}

func (Education) isField() {}

func (e Education) String() string {
	return e.Display
}
