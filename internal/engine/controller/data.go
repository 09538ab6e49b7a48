package controller

import (
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
)

// DataController converts between model roots and HTML data.
type DataController struct {
	Mapper   *conversion.Mapper
	Downcast *conversion.DowncastDispatcher
	Upcast   *conversion.UpcastDispatcher

	model     *model.Model
	processor view.HTMLProcessor
	policy    *bluemonday.Policy
}

// NewDataController creates the data pipeline dispatchers.
func NewDataController(m *model.Model, policy conversion.Policy) *DataController {
	mapper := conversion.NewMapper()
	return &DataController{
		Mapper:   mapper,
		Downcast: conversion.NewDowncastDispatcher(conversion.GroupDataDowncast, m.Schema, mapper),
		Upcast:   conversion.NewUpcastDispatcher(m.Schema, policy),
		model:    m,
	}
}

// EnableSanitizer passes all output through a UGC sanitizing policy that
// keeps the markup produced by the built-in features.
func (c *DataController) EnableSanitizer() {
	c.policy = NewSanitizePolicy()
}

// Sanitizing reports whether output is sanitized.
func (c *DataController) Sanitizing() bool { return c.policy != nil }

// NewSanitizePolicy returns the policy used for sanitized output.
func NewSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^image$`)).OnElements("figure")
	p.AllowAttrs("srcset", "sizes", "width", "alt", "data-ckbox-resource-id").OnElements("img")
	p.AllowAttrs("data-ckbox-resource-id").OnElements("figure")
	return p
}

// Get returns the data of the named root.
func (c *DataController) Get(rootName string) (string, error) {
	root := c.model.Document().Root(rootName)
	if root == nil {
		return "", fmt.Errorf("get data: root %q does not exist", rootName)
	}
	return c.Stringify(root)
}

// Stringify serializes the children of a model element as HTML.
func (c *DataController) Stringify(el *model.Element) (string, error) {
	frag, err := c.ToView(el)
	if err != nil {
		return "", err
	}
	out, err := c.processor.ToData(frag)
	if err != nil {
		return "", err
	}
	if c.policy != nil {
		out = c.policy.Sanitize(out)
	}
	return out, nil
}

// ToView downcasts the children of a model element into a detached view
// fragment.
func (c *DataController) ToView(el *model.Element) (*view.Element, error) {
	frag := view.NewFragment()
	c.Mapper.Clear()
	c.Mapper.Bind(el, frag)
	if err := c.Downcast.ConvertInsert(el.Children()...); err != nil {
		return nil, fmt.Errorf("data downcast: %w", err)
	}
	return frag, nil
}

// Parse upcasts HTML into a detached model document fragment.
func (c *DataController) Parse(data string) (*model.Element, error) {
	viewFrag, err := c.processor.ToView(data)
	if err != nil {
		return nil, err
	}
	var frag *model.Element
	err = c.model.Change(func(w *model.Writer) error {
		var err error
		frag, err = c.Upcast.Convert(viewFrag, w)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upcast: %w", err)
	}
	return frag, nil
}

// Set replaces the content of the named root with the parsed data.
func (c *DataController) Set(rootName, data string) error {
	root := c.model.Document().Root(rootName)
	if root == nil {
		return fmt.Errorf("set data: root %q does not exist", rootName)
	}
	viewFrag, err := c.processor.ToView(data)
	if err != nil {
		return err
	}

	return c.model.Change(func(w *model.Writer) error {
		frag, err := c.Upcast.Convert(viewFrag, w)
		if err != nil {
			return fmt.Errorf("upcast: %w", err)
		}
		for _, child := range root.Children() {
			if err := w.Remove(child); err != nil {
				return err
			}
		}
		for _, child := range frag.Children() {
			if err := w.Remove(child); err != nil {
				return err
			}
			if err := w.Append(child, root); err != nil {
				return err
			}
		}
		w.SetSelectionAt(model.PositionAt(root, 0))
		return nil
	})
}
