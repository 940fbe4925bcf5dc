package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/markflow"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/element/fs"
	"github.com/viant/markflow/service/translation"
)

type rootFlags struct {
	config    string
	workflows string
	elements  string
	state     string
	locale    string
}

type commandContext struct {
	flags *rootFlags

	serviceOnce sync.Once
	service     *markflow.Service
	elements    *fs.Service
	serviceErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureService(ctx context.Context) (*markflow.Service, error) {
	c.serviceOnce.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		config := markflow.DefaultConfig()
		if path := strings.TrimSpace(c.flags.config); path != "" {
			loaded, err := markflow.LoadConfig(ctx, path)
			if err != nil {
				c.serviceErr = err
				return
			}
			config = loaded
		}
		if state := strings.TrimSpace(c.flags.state); state != "" {
			config.StateTable.DSN = state
		}
		srv, err := markflow.New(ctx, markflow.WithConfig(config))
		if err != nil {
			c.serviceErr = err
			return
		}
		if _, err = srv.LoadWorkflows(ctx, c.flags.workflows); err != nil {
			_ = srv.Close()
			c.serviceErr = err
			return
		}
		elements, err := fs.New(ctx, c.flags.elements, srv.Logger())
		if err != nil {
			_ = srv.Close()
			c.serviceErr = err
			return
		}
		c.service = srv
		c.elements = elements
	})
	return c.service, c.serviceErr
}

func (c *commandContext) close() error {
	if c.service == nil {
		return nil
	}
	srv := c.service
	c.service = nil
	return srv.Close()
}

// requestContext returns context carrying the --locale flag
func (c *commandContext) requestContext(ctx context.Context) context.Context {
	if locale := strings.TrimSpace(c.flags.locale); locale != "" {
		return translation.WithLocale(ctx, locale)
	}
	return ctx
}

func (c *commandContext) loadElement(ctx context.Context, id string) (*element.Element, error) {
	if c.elements == nil {
		return nil, fmt.Errorf("element storage was not initialised")
	}
	ret, err := c.elements.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, fmt.Errorf("element %v not found in %v", id, c.flags.elements)
	}
	return ret, err
}
