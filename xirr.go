package pnl

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// ReturnStatus qualifies how a ReturnResult was obtained.
type ReturnStatus string

const (
	StatusSuccess           ReturnStatus = "success"            // XIRR solved by root finding.
	StatusApprox            ReturnStatus = "approx"             // simple annualized ratio, last resort.
	StatusWarning           ReturnStatus = "warning"            // input cannot have a rate.
	StatusError             ReturnStatus = "error"              // no usable rate.
	StatusMWRRFallback      ReturnStatus = "mwrr_fallback"      // root finding failed, MWRR used.
	StatusCorrectedFallback ReturnStatus = "corrected_fallback" // implausible XIRR replaced by MWRR.
)

// Method names reported in ReturnResult.Method.
const (
	MethodBrent            = "brentq"
	MethodMWRR             = "mwrr"
	MethodSimpleAnnualized = "simple_annualized"
	MethodSimpleReturn     = "simple_return"
)

const (
	daysPerYear = 365.0

	zeroFlowEpsilon = 1e-10 // below it every flow is zero
	flowEpsilon     = 1e-6  // a flow must exceed it to count as in or out

	bracketLower      = -0.999
	bracketUpperStart = 2.0
	bracketExpansions = 8
	brentTolerance    = 1e-6
	brentMaxIter      = 200

	plausibleLimit = 1000.0 // percent
	approxCap      = 999.0  // percent
	maxExponent    = 100.0
	minSpanDays    = 4
)

var (
	errNoBracket      = errors.New("no sign change found to bracket a root")
	errNoConvergence  = errors.New("root finding did not converge")
	errNotFinite      = errors.New("net present value is not finite")
	errImplausible    = errors.New("rate is implausible")
	errNoElapsedTime  = errors.New("cash flows span no time")
	errOneSidedTotals = errors.New("inflows or outflows total zero")
)

// ReturnResult is the outcome of a return computation. A nil Value means no
// usable rate; Status and Reason tell why. Value is a percentage.
type ReturnResult struct {
	Value  *float64
	Status ReturnStatus
	Reason string
	Method string
}

// OK reports whether the result carries a rate.
func (r ReturnResult) OK() bool { return r.Value != nil }

// Percent returns the rate, 0 when there is none.
func (r ReturnResult) Percent() float64 {
	if r.Value == nil {
		return 0
	}
	return *r.Value
}

// MarshalJSON implements json.Marshaler. Missing fields are explicit nulls.
func (r ReturnResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.OrNull("value", r.Value)
	w.Append("status", r.Status)
	w.OrNull("reason", r.Reason)
	w.OrNull("method", r.Method)
	return w.MarshalJSON()
}

func newResult(value float64, status ReturnStatus, method, reason string) ReturnResult {
	return ReturnResult{Value: &value, Status: status, Method: method, Reason: reason}
}

func failed(status ReturnStatus, reason string) ReturnResult {
	return ReturnResult{Status: status, Reason: reason}
}

// SolverOptions configures a ReturnSolver.
type SolverOptions struct {
	// AllowExtreme keeps MWRR results beyond ±1000%. Only meant for tests
	// exercising the fallback on synthetic data.
	AllowExtreme bool
	Logger       zerolog.Logger
}

// ReturnSolver computes the annualized money-weighted return of a cash-flow
// series. It never panics and always returns a ReturnResult.
//
// The rate is the root of the net present value, found by Brent's method on
// a bracket. When no root can be bracketed or found, the money-weighted ratio
// of total inflows to total outflows is annualized instead (MWRR), and when
// that is rejected too, a capped simple annualized ratio is returned.
type ReturnSolver struct {
	opts SolverOptions
	log  zerolog.Logger
}

// NewReturnSolver creates a solver.
func NewReturnSolver(opts SolverOptions) *ReturnSolver {
	return &ReturnSolver{
		opts: opts,
		log:  opts.Logger.With().Str("component", "xirr").Logger(),
	}
}

// XIRR solves flows with a default solver.
func XIRR(flows []CashFlow) ReturnResult {
	return NewReturnSolver(SolverOptions{}).Solve(flows)
}

// problem is a validated cash-flow series, ready to be solved.
type problem struct {
	amounts []float64
	years   []float64 // since the earliest flow
	span    int       // days between the earliest and the latest flow
	inflow  float64   // sum of positive amounts
	outflow float64   // absolute sum of negative amounts
}

// newProblem validates flows. It returns a failed result when no rate can be
// computed.
func newProblem(flows []CashFlow) (*problem, *ReturnResult) {
	if len(flows) < 2 {
		r := failed(StatusError, fmt.Sprintf("at least 2 cash flows are required, got %d", len(flows)))
		return nil, &r
	}
	p := &problem{
		amounts: make([]float64, len(flows)),
		years:   make([]float64, len(flows)),
	}
	for i, f := range flows {
		if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
			r := failed(StatusError, fmt.Sprintf("cash flow %d on %s is not a finite number", i, f.Date))
			return nil, &r
		}
		p.amounts[i] = f.Amount
	}
	if floats.Norm(p.amounts, math.Inf(1)) < zeroFlowEpsilon {
		r := failed(StatusWarning, "all cash flows are zero")
		return nil, &r
	}
	if floats.Max(p.amounts) <= flowEpsilon {
		r := failed(StatusWarning, "no positive cash flow: nothing was received nor is held")
		return nil, &r
	}
	if floats.Min(p.amounts) >= -flowEpsilon {
		r := failed(StatusWarning, "no negative cash flow: nothing was invested")
		return nil, &r
	}

	first, last := spanOf(flows)
	for i, f := range flows {
		p.years[i] = float64(f.Date.DaysSince(first)) / daysPerYear
		if f.Amount > 0 {
			p.inflow += f.Amount
		} else {
			p.outflow -= f.Amount
		}
	}
	p.span = last.DaysSince(first)
	return p, nil
}

// npv is the net present value of the flows discounted at rate.
func (p *problem) npv(rate float64) float64 {
	var sum float64
	for i, a := range p.amounts {
		sum += a / math.Pow(1+rate, p.years[i])
	}
	return sum
}

// Solve returns the annualized return of flows, in percent.
func (s *ReturnSolver) Solve(flows []CashFlow) ReturnResult {
	p, invalid := newProblem(flows)
	if invalid != nil {
		s.log.Debug().Str("status", string(invalid.Status)).Str("reason", invalid.Reason).Msg("cash flows rejected")
		return *invalid
	}

	rate, err := s.brent(p)
	if err == nil {
		if math.Abs(rate) <= plausibleLimit {
			return newResult(rate, StatusSuccess, MethodBrent, "")
		}
		return s.correct(p, rate)
	}
	s.log.Debug().Err(err).Msg("root finding failed, trying MWRR")

	// Fallback chain: each stage is tried in order until one yields a rate.
	reasons := []string{err.Error()}
	stages := []struct {
		status ReturnStatus
		method string
		solve  func(*problem) (float64, string, error)
	}{
		{StatusMWRRFallback, MethodMWRR, s.mwrrStage},
		{StatusApprox, MethodSimpleAnnualized, s.simpleStage},
	}
	for _, st := range stages {
		v, method, err := st.solve(p)
		if err != nil {
			reasons = append(reasons, err.Error())
			s.log.Debug().Err(err).Str("method", st.method).Msg("fallback rejected")
			continue
		}
		return newResult(v, st.status, method, joinReasons(reasons))
	}
	s.log.Warn().Strs("reasons", reasons).Msg("no return rate could be computed")
	return failed(StatusError, joinReasons(reasons))
}

// correct replaces an implausible XIRR with the MWRR, or reports an error.
func (s *ReturnSolver) correct(p *problem, xirr float64) ReturnResult {
	reason := fmt.Sprintf("XIRR of %.2f%% is implausible", xirr)
	s.log.Warn().Float64("xirr", xirr).Msg("implausible XIRR, correcting with MWRR")
	v, err := s.mwrr(p)
	if err != nil {
		return failed(StatusError, reason+"; MWRR correction failed: "+err.Error())
	}
	if math.Abs(v) > plausibleLimit {
		return failed(StatusError, fmt.Sprintf("%s; MWRR correction of %.2f%% is implausible too", reason, v))
	}
	return newResult(v, StatusCorrectedFallback, MethodMWRR, reason+", corrected with MWRR")
}

// brent brackets the root of the NPV and solves it. The rate is in percent.
func (s *ReturnSolver) brent(p *problem) (float64, error) {
	if p.span == 0 {
		// Every rate discounts nothing: the NPV does not depend on it.
		return 0, errNoElapsedTime
	}
	lower, upper := bracketLower, bracketUpperStart
	fl, fu := p.npv(lower), p.npv(upper)
	for i := 0; i < bracketExpansions && sameSign(fl, fu); i++ {
		upper *= 2
		fu = p.npv(upper)
	}
	if !finite(fl) || !finite(fu) {
		return 0, errNotFinite
	}
	if sameSign(fl, fu) {
		return 0, fmt.Errorf("%w on [%g, %g]", errNoBracket, lower, upper)
	}
	rate, err := brentRoot(p.npv, lower, upper, fl, fu, brentTolerance, brentMaxIter)
	if err != nil {
		return 0, err
	}
	return rate * 100, nil
}

func (s *ReturnSolver) mwrrStage(p *problem) (float64, string, error) {
	v, err := s.mwrr(p)
	return v, MethodMWRR, err
}

// mwrr annualizes the ratio of total inflows to total outflows. The rate is
// in percent.
func (s *ReturnSolver) mwrr(p *problem) (float64, error) {
	if p.inflow == 0 || p.outflow == 0 {
		return 0, errOneSidedTotals
	}
	years := float64(p.span) / daysPerYear
	if years <= 0 {
		return 0, errNoElapsedTime
	}
	v := (math.Pow(p.inflow/p.outflow, 1/years) - 1) * 100
	if !finite(v) {
		return 0, fmt.Errorf("MWRR: %w", errNotFinite)
	}
	if math.Abs(v) > plausibleLimit && !s.opts.AllowExtreme {
		return 0, fmt.Errorf("MWRR of %.2f%%: %w", v, errImplausible)
	}
	return v, nil
}

// simpleStage annualizes the inflow/outflow ratio with every guard on, and
// caps the result. Spans shorter than a few days are not extrapolated.
func (s *ReturnSolver) simpleStage(p *problem) (float64, string, error) {
	ratio := p.inflow / p.outflow
	if !(ratio > 0) || !finite(ratio) {
		return 0, "", fmt.Errorf("simple return: ratio %g is not positive", ratio)
	}
	if p.span < minSpanDays {
		return clamp((ratio-1)*100, approxCap), MethodSimpleReturn, nil
	}
	exponent := math.Min(daysPerYear/float64(p.span), maxExponent)
	v := (math.Pow(ratio, exponent) - 1) * 100
	if math.IsNaN(v) {
		return 0, "", fmt.Errorf("simple annualized return: %w", errNotFinite)
	}
	return clamp(v, approxCap), MethodSimpleAnnualized, nil
}

// brentRoot finds a root of f in [a, b] by Brent's method. fa and fb are f(a)
// and f(b), of opposite signs.
func brentRoot(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) (float64, error) {
	const eps = 2.220446049250313e-16
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if sameSign(fa, fb) {
		return 0, errNoBracket
	}
	c, fc := a, fa
	d := b - a
	e := d
	for i := 0; i < maxIter; i++ {
		if sameSign(fb, fc) {
			// the root is between a and b, restart the bracket on a.
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*eps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// attempt inverse quadratic interpolation, or secant.
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
		if !finite(fb) {
			return 0, errNotFinite
		}
	}
	return 0, fmt.Errorf("%w after %d iterations", errNoConvergence, maxIter)
}

func sameSign(a, b float64) bool { return (a > 0 && b > 0) || (a < 0 && b < 0) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp(v, limit float64) float64 { return math.Max(-limit, math.Min(limit, v)) }

func joinReasons(reasons []string) string { return strings.Join(reasons, "; ") }

// SeriesReturn is a convenience to solve a built series.
func (s *ReturnSolver) SeriesReturn(series CashFlowSeries) ReturnResult {
	return s.Solve(series.Flows)
}

// spanOf returns the first and last date of flows.
func spanOf(flows []CashFlow) (first, last date.Date) {
	for i, f := range flows {
		if i == 0 || f.Date.Before(first) {
			first = f.Date
		}
		if i == 0 || f.Date.After(last) {
			last = f.Date
		}
	}
	return first, last
}
