package handlers

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/models"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
)

// Every POST parses and validates all arguments before its single upsert,
// so a failed request never writes. Inserts and updates both answer 201.

func (d *Dispatcher) created(what string, err error) (protocol.Response, error) {
	if err != nil {
		logger.Error.Printf("Failed to store %s: %v", what, err)
		return protocol.Response{}, protocol.DatabaseError(err)
	}
	return protocol.Created(), nil
}

// POST 1: class classroom subject teacher lesson_number week_day
func (d *Dispatcher) postLesson(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 6); err != nil {
		return protocol.Response{}, err
	}
	ids, err := parseIDs(req.Args...)
	if err != nil {
		return protocol.Response{}, err
	}

	lesson := models.Lesson{
		ClassID:     ids[0],
		ClassroomID: ids[1],
		SubjectID:   ids[2],
		TeacherID:   ids[3],
		LessonHour:  ids[4],
		WeekDay:     ids[5],
	}
	if err := validate(&lesson); err != nil {
		return protocol.Response{}, err
	}

	return d.created("lesson", d.store.UpsertLesson(&lesson))
}

// POST 2: id first_name last_name
func (d *Dispatcher) postTeacher(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 3); err != nil {
		return protocol.Response{}, err
	}
	id, err := parseID(req.Args[0])
	if err != nil {
		return protocol.Response{}, err
	}
	firstName, err := parseName(req.Args[1])
	if err != nil {
		return protocol.Response{}, err
	}
	lastName, err := parseName(req.Args[2])
	if err != nil {
		return protocol.Response{}, err
	}

	teacher := models.Teacher{ID: id, FirstName: firstName, LastName: lastName}
	if err := validate(&teacher); err != nil {
		return protocol.Response{}, err
	}

	return d.created("teacher", d.store.UpsertTeacher(&teacher))
}

func (d *Dispatcher) windowArgs(req *protocol.Request) (uint8, string, string, error) {
	if err := expectArgs(req, 3); err != nil {
		return 0, "", "", err
	}
	num, err := parseID(req.Args[0])
	if err != nil {
		return 0, "", "", err
	}
	start, err := parseClock(req.Args[1])
	if err != nil {
		return 0, "", "", err
	}
	end, err := parseClock(req.Args[2])
	if err != nil {
		return 0, "", "", err
	}
	return num, start, end, nil
}

// POST 3: lesson_number start end
func (d *Dispatcher) postLessonHour(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	num, start, end, err := d.windowArgs(req)
	if err != nil {
		return protocol.Response{}, err
	}

	hour := models.LessonHour{Num: num, StartTime: start, EndTime: end}
	if err := validate(&hour); err != nil {
		return protocol.Response{}, err
	}

	return d.created("lesson hour", d.store.UpsertLessonHour(&hour))
}

// POST 8: break_num start end
func (d *Dispatcher) postBreakHour(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	num, start, end, err := d.windowArgs(req)
	if err != nil {
		return protocol.Response{}, err
	}

	hour := models.BreakHour{Num: num, StartTime: start, EndTime: end}
	if err := validate(&hour); err != nil {
		return protocol.Response{}, err
	}

	return d.created("break hour", d.store.UpsertBreakHour(&hour))
}

func (d *Dispatcher) namedArgs(req *protocol.Request) (uint8, string, error) {
	if err := expectArgs(req, 2); err != nil {
		return 0, "", err
	}
	id, err := parseID(req.Args[0])
	if err != nil {
		return 0, "", err
	}
	name, err := parseName(req.Args[1])
	if err != nil {
		return 0, "", err
	}
	return id, name, nil
}

// POST 4: id name
func (d *Dispatcher) postSubject(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, name, err := d.namedArgs(req)
	if err != nil {
		return protocol.Response{}, err
	}

	subject := models.Subject{ID: id, Name: name}
	if err := validate(&subject); err != nil {
		return protocol.Response{}, err
	}

	return d.created("subject", d.store.UpsertSubject(&subject))
}

// POST 5: id name
func (d *Dispatcher) postClassroom(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, name, err := d.namedArgs(req)
	if err != nil {
		return protocol.Response{}, err
	}

	classroom := models.Classroom{ID: id, Name: name}
	if err := validate(&classroom); err != nil {
		return protocol.Response{}, err
	}

	return d.created("classroom", d.store.UpsertClassroom(&classroom))
}

// POST 6: teacher_id week_day lesson_number classroom_id
func (d *Dispatcher) postDuty(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 4); err != nil {
		return protocol.Response{}, err
	}
	ids, err := parseIDs(req.Args...)
	if err != nil {
		return protocol.Response{}, err
	}

	duty := models.Duty{
		TeacherID:   ids[0],
		WeekDay:     ids[1],
		LessonHour:  ids[2],
		ClassroomID: ids[3],
	}
	if err := validate(&duty); err != nil {
		return protocol.Response{}, err
	}

	return d.created("duty", d.store.UpsertDuty(&duty))
}

// POST 7: id name
func (d *Dispatcher) postClass(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, name, err := d.namedArgs(req)
	if err != nil {
		return protocol.Response{}, err
	}

	class := models.Class{ID: id, Name: name}
	if err := validate(&class); err != nil {
		return protocol.Response{}, err
	}

	return d.created("class", d.store.UpsertClass(&class))
}
