package modkit

import "surveylens/internal/modkit/module"

// Module is the common surface for pipeline modules that expose ports
type Module = module.Module

// Builder constructs a Module from shared deps and options
// modules typically expose New(deps Deps, overrides Options, opts ...Option) and may delegate to this pattern
type Builder func(Deps, ...Option) Module
