package tester

import (
	fx "github.com/robotalks/safety-io/pkg/framework"
)

// Request is a received command line waiting for its response.
type Request interface {
	Line() string
	Reply(response string) error
}

// Controller runs a Tester in a framework.Loop. Within one iteration the
// blinker runs first, then both latches, then at most one Request is
// dispatched.
type Controller struct {
	Tester *Tester
}

// NewController wraps a Tester.
func NewController(t *Tester) *Controller {
	return &Controller{Tester: t}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvHigh, fx.ControlFunc(c.blink))
	loop.AddController(fx.PrLvNormal, fx.ControlFunc(c.schedule))
	loop.AddController(fx.PrLvLow, fx.ControlFunc(c.dispatch))
}

func (c *Controller) blink(cc fx.ControlContext) error {
	c.Tester.Blinker.Tick(cc.Now())
	return nil
}

func (c *Controller) schedule(cc fx.ControlContext) error {
	c.Tester.EStop.Tick(cc.Now())
	c.Tester.Interlock.Tick(cc.Now())
	return nil
}

func (c *Controller) dispatch(cc fx.ControlContext) (err error) {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		req, ok := mctx.CurrentMessage().(Request)
		if !ok {
			return
		}
		mctx.MessageTaken()
		mctx.StopProcessing()
		if resp := c.Tester.Dispatch(req.Line()); resp != "" {
			err = req.Reply(resp)
		}
	}))
	return
}
