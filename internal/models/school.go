package models

type Class struct {
	ID   uint8  `db:"class_id" json:"class_id"`
	Name string `db:"name" json:"name" validate:"required,max=64,replysafe"`
}

type Classroom struct {
	ID   uint8  `db:"classroom_id" json:"classroom_id"`
	Name string `db:"name" json:"name" validate:"required,max=64,replysafe"`
}

type Teacher struct {
	ID        uint8  `db:"teacher_id" json:"teacher_id"`
	FirstName string `db:"first_name" json:"first_name" validate:"required,max=64,replysafe"`
	LastName  string `db:"last_name" json:"last_name" validate:"required,max=64,replysafe"`
}

type Subject struct {
	ID   uint8  `db:"subject_id" json:"subject_id"`
	Name string `db:"name" json:"name" validate:"required,max=64,replysafe"`
}

func (c *Class) Validate() error {
	validate := newValidator()
	return validate.Struct(c)
}

func (c *Classroom) Validate() error {
	validate := newValidator()
	return validate.Struct(c)
}

func (t *Teacher) Validate() error {
	validate := newValidator()
	return validate.Struct(t)
}

func (s *Subject) Validate() error {
	validate := newValidator()
	return validate.Struct(s)
}
