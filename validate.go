package modelity

// locFrame is one model on the current validation path. Location validators
// of every model on the path apply to the subtree below it.
type locFrame struct {
	model *Model
}

// applyLocValidators runs every location validator on the current path whose
// pattern matches loc. Called for field values, container elements and map
// entries alike.
func (rc *RunContext) applyLocValidators(loc Loc, v any) {
	for _, frame := range rc.locFrames {
		for _, h := range frame.model.schema.hooks.LocValidators {
			if !loc.Matches(h.pattern) {
				continue
			}
			if err := h.fn(frame.model, rc, loc, v); err != nil {
				appendHookError(rc.Sink, loc, v, err)
			}
		}
	}
}

// Validate runs the full validation pipeline on m with a nil user context.
// It returns nil or a *ValidationError aggregating every finding.
func Validate(m *Model) error { return ValidateCtx(m, nil) }

// ValidateCtx is Validate with a user-supplied context value, exposed to
// every validator through RunContext.Ctx.
func ValidateCtx(m *Model, ctx any) error {
	rc := &RunContext{Root: m, Ctx: ctx, Sink: NewErrorSink()}
	validateModel(rc, m, nil)
	if rc.Sink.Len() > 0 {
		return NewValidationError(m.schema.name, rc.Sink.Errors())
	}
	return nil
}

// validateModel runs one model's validator sequence: prevalidators, the
// required check, field validators, location validators, descriptor
// validation with nested recursion, then postvalidators. Prevalidators may
// skip everything after them; postvalidators may prune the sink.
func validateModel(rc *RunContext, m *Model, base Loc) {
	rc.locFrames = append(rc.locFrames, locFrame{model: m})
	defer func() {
		rc.locFrames = rc.locFrames[:len(rc.locFrames)-1]
	}()

	for _, h := range m.schema.hooks.Prevalidators {
		skip, err := h.fn(m, rc, base)
		if err != nil && appendHookError(rc.Sink, base, Unset, err) {
			skip = true
		}
		if skip {
			return
		}
	}

	for _, f := range m.schema.fields {
		v := m.values[f.index]
		floc := base.Push(f.info.Name)
		if _, isInvalid := v.(Invalid); isInvalid {
			// supplied but failed to parse; already reported at parse time
			continue
		}
		if IsUnset(v) {
			if !f.info.Optional {
				rc.Sink.Append(errRequiredMissing(floc))
			}
			continue
		}
		for _, h := range f.validators {
			if err := h.fn(m, rc, floc, v); err != nil {
				appendHookError(rc.Sink, floc, v, err)
			}
		}
		rc.applyLocValidators(floc, v)
		f.desc.Validate(rc, floc, v)
	}

	for _, h := range m.schema.hooks.Postvalidators {
		if err := h.fn(m, rc, base); err != nil {
			appendHookError(rc.Sink, base, Unset, err)
		}
	}
}
