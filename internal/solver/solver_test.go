package solver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/metrics"
	"github.com/san-kum/eulerlab/internal/solver"
)

var _ = Describe("Solver", func() {
	var (
		span = dynamo.TimeRange{Start: 0, End: 20}
		h    = 0.1
	)

	Describe("Analytic", func() {
		It("returns the initial condition at index 0", func() {
			traj, err := solver.Analytic(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Position[0]).To(Equal(1.0))
			Expect(traj.Velocity[0]).To(Equal(0.0))
		})

		It("samples 201 points from 0 to 20 at h=0.1", func() {
			traj, err := solver.Analytic(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(201))
			Expect(traj.Position).To(HaveLen(201))
			Expect(traj.Velocity).To(HaveLen(201))
			Expect(traj.Times[200]).To(BeNumerically("~", 20, 1e-9))
		})

		It("follows cos and -sin for x0=1, v0=0", func() {
			traj, err := solver.Analytic(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			for i, t := range traj.Times {
				Expect(traj.Position[i]).To(BeNumerically("~", math.Cos(t), 1e-12))
				Expect(traj.Velocity[i]).To(BeNumerically("~", -math.Sin(t), 1e-12))
			}
		})

		It("keeps energy at x0²+v0²", func() {
			traj, err := solver.Analytic(span, h, 0.6, -0.8)
			Expect(err).NotTo(HaveOccurred())
			for _, e := range metrics.Energy(traj) {
				Expect(e).To(BeNumerically("~", 1.0, 1e-12))
			}
		})
	})

	Describe("Euler schemes", func() {
		It("produce trajectories the same length as the analytic one", func() {
			analytic, err := solver.Analytic(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())

			for _, fn := range []solver.Func{solver.Explicit, solver.Implicit, solver.Symplectic} {
				traj, err := fn(span, h, 1, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Len()).To(Equal(analytic.Len()))
				Expect(traj.State(0)).To(Equal(dynamo.State{1, 0}))
			}
		})

		It("take the documented first step", func() {
			explicit, _ := solver.Explicit(span, h, 1, 0)
			Expect(explicit.State(1)).To(Equal(dynamo.State{1, -0.1}))

			symplectic, _ := solver.Symplectic(span, h, 1, 0)
			Expect(symplectic.State(1)).To(Equal(dynamo.State{1, -0.1}))

			implicit, _ := solver.Implicit(span, h, 1, 0)
			Expect(implicit.Position[1]).To(BeNumerically("~", 1/1.01, 1e-15))
			Expect(implicit.Velocity[1]).To(BeNumerically("~", -0.1/1.01, 1e-15))
		})

		It("grow energy with explicit Euler", func() {
			traj, err := solver.Explicit(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			energy := metrics.Energy(traj)
			for i := 1; i < len(energy); i++ {
				Expect(energy[i]).To(BeNumerically(">", energy[i-1]))
			}
			Expect(energy[200]).To(BeNumerically("~", math.Pow(1.01, 200), 1e-9))
		})

		It("decay energy with implicit Euler", func() {
			traj, err := solver.Implicit(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			energy := metrics.Energy(traj)
			for i := 1; i < len(energy); i++ {
				Expect(energy[i]).To(BeNumerically("<", energy[i-1]))
			}
			Expect(energy[200]).To(BeNumerically("~", math.Pow(1.01, -200), 1e-9))
		})

		It("keep symplectic energy in a bounded band without drift", func() {
			traj, err := solver.Symplectic(span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())

			lo, hi := metrics.Band(metrics.Energy(traj))
			Expect(lo).To(BeNumerically(">=", 2/(2+h)-1e-12))
			Expect(hi).To(BeNumerically("<=", 2/(2-h)+1e-12))

			long, err := solver.Symplectic(dynamo.TimeRange{Start: 0, End: 2000}, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			lo, hi = metrics.Band(metrics.Energy(long))
			Expect(lo).To(BeNumerically(">=", 2/(2+h)-1e-9))
			Expect(hi).To(BeNumerically("<=", 2/(2-h)+1e-9))
		})

		It("rank final position errors explicit > symplectic", func() {
			analytic, _ := solver.Analytic(span, h, 1, 0)
			explicit, _ := solver.Explicit(span, h, 1, 0)
			symplectic, _ := solver.Symplectic(span, h, 1, 0)

			final := analytic.Len() - 1
			errExplicit := math.Abs(analytic.Position[final] - explicit.Position[final])
			errSymplectic := math.Abs(analytic.Position[final] - symplectic.Position[final])
			Expect(errExplicit).To(BeNumerically(">", errSymplectic))
		})
	})

	Describe("Solve", func() {
		It("dispatches by name", func() {
			direct, _ := solver.Implicit(span, h, 1, 0)
			named, err := solver.Solve("implicit", span, h, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(named).To(Equal(direct))
		})

		It("rejects unknown schemes", func() {
			_, err := solver.Solve("leapfrog", span, h, 1, 0)
			Expect(err).To(MatchError(dynamo.ErrUnknownScheme))
		})

		It("lists every scheme", func() {
			Expect(solver.Names()).To(Equal([]string{"analytic", "explicit", "implicit", "rk4", "symplectic"}))
		})
	})

	DescribeTable("invalid inputs",
		func(r dynamo.TimeRange, step, x0, v0 float64, want error) {
			for _, name := range solver.Names() {
				traj, err := solver.Solve(name, r, step, x0, v0)
				Expect(traj).To(BeNil())
				Expect(err).To(MatchError(want))
			}
		},
		Entry("zero step", span, 0.0, 1.0, 0.0, dynamo.ErrInvalidStep),
		Entry("negative step", span, -0.1, 1.0, 0.0, dynamo.ErrInvalidStep),
		Entry("step larger than range", dynamo.TimeRange{Start: 0, End: 1}, 2.0, 1.0, 0.0, dynamo.ErrInvalidStep),
		Entry("end equals start", dynamo.TimeRange{Start: 5, End: 5}, 0.1, 1.0, 0.0, dynamo.ErrInvalidRange),
		Entry("end before start", dynamo.TimeRange{Start: 5, End: 1}, 0.1, 1.0, 0.0, dynamo.ErrInvalidRange),
		Entry("NaN position", span, 0.1, math.NaN(), 0.0, dynamo.ErrInvalidState),
		Entry("infinite velocity", span, 0.1, 1.0, math.Inf(1), dynamo.ErrInvalidState),
		Entry("step too fine for the range", span, 1e-14, 1.0, 0.0, dynamo.ErrInvalidStep),
	)
})
