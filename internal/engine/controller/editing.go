package controller

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
)

// EditingController downcasts model changes into the editing view.
type EditingController struct {
	View     *view.View
	Mapper   *conversion.Mapper
	Downcast *conversion.DowncastDispatcher

	model *model.Model
	log   logrus.FieldLogger
	sub   event.Subscription
	err   error
}

// NewEditingController creates the editing view for the model's main root
// and starts listening to model changes.
func NewEditingController(m *model.Model, log logrus.FieldLogger) *EditingController {
	c := &EditingController{
		View:   view.NewView(model.MainRootName),
		Mapper: conversion.NewMapper(),
		model:  m,
		log:    log,
	}
	c.Downcast = conversion.NewDowncastDispatcher(conversion.GroupEditingDowncast, m.Schema, c.Mapper)
	c.Mapper.Bind(m.Document().MainRoot(), c.View.Root())

	c.sub = m.Document().On("change", func(_ *event.Info, data any) {
		ev, ok := data.(model.ChangeEvent)
		if !ok {
			return
		}
		if err := c.Downcast.ConvertChanges(ev.Changes); err != nil {
			c.err = err
			c.log.WithError(err).WithField("version", ev.Version).Warn("editing downcast failed")
		}
	}, event.WithPriority(event.PriorityLow))
	return c
}

// Err returns the last downcast error, if any.
func (c *EditingController) Err() error { return c.err }

// Render renders the editing root.
func (c *EditingController) Render() (string, error) {
	return c.View.Render()
}

// Destroy stops following the model and destroys the view.
func (c *EditingController) Destroy() {
	c.sub.Off()
	c.View.Destroy()
	c.Mapper.Clear()
}
