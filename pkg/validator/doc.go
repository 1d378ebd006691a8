// Package validator builds declarative field checks for lead and quote input.
//
// Each exported rule constructor returns a Rule pairing a Check with the
// ValidationError reported when the check fails. Apply evaluates rules in the
// order given and aggregates failures into ValidationErrors, which implements
// error:
//
//	err := validator.Apply(
//	    validator.Required("name", lead.Name),
//	    validator.EmailShape("email", lead.Email),
//	    validator.PositiveInt("units", lead.Units),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    fields := verrs.Fields() // in rule order
//	}
//
// The package is stateless and safe for concurrent use.
package validator
