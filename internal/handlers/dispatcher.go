package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/metrics"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
	"github.com/shrimpsizemoose/skolklocka/internal/store"
)

type route struct {
	method protocol.Method
	number uint8
}

type handlerFunc func(ctx context.Context, req *protocol.Request) (protocol.Response, error)

// Dispatcher maps (method, request number) to a handler. It keeps no state
// between requests; the store is the only shared resource.
type Dispatcher struct {
	store  store.ScheduleStore
	now    func() time.Time
	routes map[route]handlerFunc
}

func NewDispatcher(st store.ScheduleStore, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	d := &Dispatcher{
		store: st,
		now:   now,
	}
	d.routes = map[route]handlerFunc{
		{protocol.MethodGet, 0}:  d.getAck,
		{protocol.MethodGet, 1}:  d.getTeacherFirstLesson,
		{protocol.MethodGet, 2}:  d.getActiveLessonHour,
		{protocol.MethodGet, 3}:  d.getTeacherDutyPlace,
		{protocol.MethodGet, 4}:  d.getTeacherOnDuty,
		{protocol.MethodGet, 5}:  d.getTeacherCurrentLesson,
		{protocol.MethodGet, 6}:  d.getActiveLessonNumber,
		{protocol.MethodGet, 7}:  d.getClassroomName,
		{protocol.MethodGet, 8}:  d.getClassName,
		{protocol.MethodGet, 9}:  d.getTeacherName,
		{protocol.MethodGet, 10}: d.getActiveBreak,
		{protocol.MethodGet, 11}: d.getLessonByKey,

		{protocol.MethodPost, 1}: d.postLesson,
		{protocol.MethodPost, 2}: d.postTeacher,
		{protocol.MethodPost, 3}: d.postLessonHour,
		{protocol.MethodPost, 4}: d.postSubject,
		{protocol.MethodPost, 5}: d.postClassroom,
		{protocol.MethodPost, 6}: d.postDuty,
		{protocol.MethodPost, 7}: d.postClass,
		{protocol.MethodPost, 8}: d.postBreakHour,
	}
	return d
}

// Dispatch runs the handler for req. The second result is false when the
// request gets no reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req *protocol.Request) (protocol.Response, bool) {
	if req.Method == protocol.MethodOther {
		return protocol.Response{}, false
	}

	start := time.Now()
	number := strconv.Itoa(int(req.Number))

	resp, err := d.handle(ctx, req)
	if err != nil {
		logger.Debug.Printf("%s %d failed: %v", req.Method, req.Number, err)
		resp, _ = protocol.ErrorResponse(err)
	}

	metrics.RequestDuration.WithLabelValues(req.Method.String(), number).Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(req.Method.String(), number, strconv.Itoa(resp.Code)).Inc()

	return resp, true
}

func (d *Dispatcher) handle(ctx context.Context, req *protocol.Request) (protocol.Response, error) {
	h, ok := d.routes[route{req.Method, req.Number}]
	if !ok {
		return protocol.Response{}, protocol.UnknownRequestError(req.Method, req.Number)
	}
	return h(ctx, req)
}
