package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/shrimpsizemoose/skolklocka/internal/models"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
)

const ackBody = "ack"

func (d *Dispatcher) getAck(_ context.Context, _ *protocol.Request) (protocol.Response, error) {
	return protocol.OK(ackBody), nil
}

func (d *Dispatcher) idArg(req *protocol.Request) (uint8, error) {
	if err := expectArgs(req, 1); err != nil {
		return 0, err
	}
	return parseID(req.Args[0])
}

// activeLessonHour is the lesson hour whose [start, end) window holds the current time.
func (d *Dispatcher) activeLessonHour(now time.Time) (*models.LessonHour, error) {
	hour, err := d.store.ActiveLessonHour(models.ClockOf(now))
	if err != nil {
		return nil, lookupError(err)
	}
	return hour, nil
}

func (d *Dispatcher) getTeacherFirstLesson(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	teacherID, err := d.idArg(req)
	if err != nil {
		return protocol.Response{}, err
	}

	lesson, err := d.store.FirstLessonForTeacher(teacherID, models.WeekDayOf(d.now()))
	if err != nil {
		return protocol.Response{}, lookupError(err)
	}

	return protocol.OK(
		itoa(lesson.ClassID),
		itoa(lesson.ClassroomID),
		itoa(lesson.SubjectID),
		itoa(lesson.LessonHour),
	), nil
}

func (d *Dispatcher) getActiveLessonHour(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 0); err != nil {
		return protocol.Response{}, err
	}

	hour, err := d.activeLessonHour(d.now())
	if err != nil {
		return protocol.Response{}, err
	}
	return protocol.OK(hour.StartTime, hour.EndTime), nil
}

func (d *Dispatcher) currentDuty(req *protocol.Request) (*models.Duty, error) {
	teacherID, err := d.idArg(req)
	if err != nil {
		return nil, err
	}

	now := d.now()
	hour, err := d.activeLessonHour(now)
	if err != nil {
		return nil, err
	}

	duty, err := d.store.GetDuty(hour.Num, teacherID, models.WeekDayOf(now))
	if err != nil {
		return nil, lookupError(err)
	}
	return duty, nil
}

func (d *Dispatcher) getTeacherDutyPlace(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	duty, err := d.currentDuty(req)
	if err != nil {
		return protocol.Response{}, err
	}
	return protocol.OK(itoa(duty.ClassroomID)), nil
}

func (d *Dispatcher) getTeacherOnDuty(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	duty, err := d.currentDuty(req)
	var reqErr *protocol.RequestError
	if errors.As(err, &reqErr) && reqErr.Kind == protocol.KindNoData {
		return protocol.OK("false"), nil
	}
	if err != nil {
		return protocol.Response{}, err
	}
	return protocol.OK("true", itoa(duty.ClassroomID)), nil
}

func (d *Dispatcher) getTeacherCurrentLesson(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	teacherID, err := d.idArg(req)
	if err != nil {
		return protocol.Response{}, err
	}

	now := d.now()
	hour, err := d.activeLessonHour(now)
	if err != nil {
		return protocol.Response{}, err
	}

	lesson, err := d.store.GetLessonForTeacher(models.WeekDayOf(now), hour.Num, teacherID)
	if err != nil {
		return protocol.Response{}, lookupError(err)
	}
	return protocol.OK(itoa(lesson.ClassID), itoa(lesson.ClassroomID)), nil
}

func (d *Dispatcher) getActiveLessonNumber(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 0); err != nil {
		return protocol.Response{}, err
	}

	hour, err := d.activeLessonHour(d.now())
	if err != nil {
		return protocol.Response{}, err
	}
	return protocol.OK(itoa(hour.Num)), nil
}

// Key lookups either return exactly one row or fail; a missing id is a database error.

func (d *Dispatcher) getClassroomName(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, err := d.idArg(req)
	if err != nil {
		return protocol.Response{}, err
	}
	name, err := d.store.ClassroomName(id)
	if err != nil {
		return protocol.Response{}, protocol.DatabaseError(err)
	}
	return protocol.OK(name), nil
}

func (d *Dispatcher) getClassName(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, err := d.idArg(req)
	if err != nil {
		return protocol.Response{}, err
	}
	name, err := d.store.ClassName(id)
	if err != nil {
		return protocol.Response{}, protocol.DatabaseError(err)
	}
	return protocol.OK(name), nil
}

func (d *Dispatcher) getTeacherName(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	id, err := d.idArg(req)
	if err != nil {
		return protocol.Response{}, err
	}
	teacher, err := d.store.GetTeacher(id)
	if err != nil {
		return protocol.Response{}, protocol.DatabaseError(err)
	}
	return protocol.OK(teacher.FirstName, teacher.LastName), nil
}

func (d *Dispatcher) getActiveBreak(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 0); err != nil {
		return protocol.Response{}, err
	}

	hour, err := d.store.ActiveBreakHour(models.ClockOf(d.now()))
	if err != nil {
		return protocol.Response{}, lookupError(err)
	}
	return protocol.OK(itoa(hour.Num), hour.StartTime, hour.EndTime), nil
}

func (d *Dispatcher) getLessonByKey(_ context.Context, req *protocol.Request) (protocol.Response, error) {
	if err := expectArgs(req, 3); err != nil {
		return protocol.Response{}, err
	}
	ids, err := parseIDs(req.Args...)
	if err != nil {
		return protocol.Response{}, err
	}

	lesson, err := d.store.GetLesson(ids[0], ids[1], ids[2])
	if err != nil {
		return protocol.Response{}, lookupError(err)
	}
	return protocol.OK(itoa(lesson.ClassroomID), itoa(lesson.SubjectID), itoa(lesson.TeacherID)), nil
}
