package thermochem_test

import (
	"errors"
	"math"

	"github.com/ctessum/unit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pbomb/internal/chem"
	"github.com/san-kum/pbomb/internal/thermochem"
	"github.com/san-kum/pbomb/internal/units"
)

func sumValues(m map[string]*unit.Unit) float64 {
	total := 0.0
	for _, v := range m {
		total += v.Value()
	}
	return total
}

func sumFractions(m map[string]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

var _ = Describe("Mixture", func() {
	var (
		provider thermochem.Provider
		cfg      thermochem.MixtureConfig
	)

	BeforeEach(func() {
		provider = thermochem.LibraryProvider(chem.NewLibrary())
		cfg = thermochem.DefaultMixtureConfig()
		cfg.InitialPressure = units.Pascals(chem.OneAtm)
		cfg.InitialTemperature = units.Kelvins(298.15)
		cfg.Fuel = "H2"
		cfg.Oxidizer = "O2"
	})

	Describe("construction", func() {
		It("builds a stoichiometric undiluted mixture", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsDiluted()).To(BeFalse())
			Expect(m.Equivalence()).To(Equal(1.0))
			Expect(m.Mechanism()).To(Equal("gri30"))

			x, err := m.MoleFractions(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(x).To(HaveLen(2))
			Expect(x["H2"]).To(BeNumerically("~", 2.0/3.0, 1e-12))
			Expect(x["O2"]).To(BeNumerically("~", 1.0/3.0, 1e-12))
		})

		It("builds the diluted state when a diluent fraction is given", func() {
			cfg.Diluent = "AR"
			cfg.DiluentMoleFraction = 0.1
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsDiluted()).To(BeTrue())

			x, err := m.MoleFractions(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(x["AR"]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(x["H2"] / x["O2"]).To(BeNumerically("~", 2.0, 1e-12))
		})

		It("records a zero-fraction diluent without diluting", func() {
			cfg.Diluent = "AR"
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsDiluted()).To(BeFalse())
			Expect(m.Diluent()).To(Equal("AR"))
		})

		It("names the fuel when it is missing from the mechanism", func() {
			cfg.Fuel = "Wayne"
			_, err := thermochem.NewMixture(provider, cfg)
			var us *thermochem.UnknownSpeciesError
			Expect(errors.As(err, &us)).To(BeTrue())
			Expect(us.Role).To(Equal("fuel"))
			Expect(err).To(MatchError(thermochem.ErrUnknownSpecies))
		})

		It("names the oxidizer when it is missing from the mechanism", func() {
			cfg.Oxidizer = "Garth"
			_, err := thermochem.NewMixture(provider, cfg)
			var us *thermochem.UnknownSpeciesError
			Expect(errors.As(err, &us)).To(BeTrue())
			Expect(us.Role).To(Equal("oxidizer"))
		})

		It("rejects identical fuel and oxidizer", func() {
			cfg.Oxidizer = "H2"
			_, err := thermochem.NewMixture(provider, cfg)
			Expect(err).To(MatchError(thermochem.ErrInvalidReactants))
		})

		It("rejects invalid quantities", func() {
			cfg.InitialPressure = units.Pascals(-1)
			_, err := thermochem.NewMixture(provider, cfg)
			Expect(err).To(MatchError(units.ErrInvalidQuantity))

			cfg.InitialPressure = units.Kelvins(300)
			_, err = thermochem.NewMixture(provider, cfg)
			Expect(err).To(MatchError(units.ErrInvalidQuantity))
		})

		It("passes provider errors through", func() {
			cfg.Mechanism = "nonexistent.cti"
			_, err := thermochem.NewMixture(provider, cfg)
			Expect(err).To(MatchError(chem.ErrMechanismNotFound))
		})
	})

	Describe("SetEquivalence", func() {
		It("re-blends the undiluted state", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.SetEquivalence(2)).To(Succeed())

			x, _ := m.MoleFractions(false)
			Expect(x["H2"]).To(BeNumerically("~", 0.8, 1e-12))
			Expect(m.Equivalence()).To(Equal(2.0))
		})

		It("keeps the dilution fraction and the new fuel ratio", func() {
			cfg.Diluent = "AR"
			cfg.DiluentMoleFraction = 0.25
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.SetEquivalence(0.5)).To(Succeed())

			x, _ := m.MoleFractions(true)
			Expect(x["AR"]).To(BeNumerically("~", 0.25, 1e-12))
			Expect(x["H2"] / x["O2"]).To(BeNumerically("~", 1.0, 1e-12))
			Expect(sumFractions(x)).To(BeNumerically("~", 1, 1e-9))
		})

		It("rejects non-positive or non-finite ratios without changes", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			before, _ := m.MoleFractions(false)

			for _, phi := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				Expect(m.SetEquivalence(phi)).To(MatchError(thermochem.ErrInvalidEquivalence))
			}
			after, _ := m.MoleFractions(false)
			Expect(after).To(Equal(before))
			Expect(m.Equivalence()).To(Equal(1.0))
		})
	})

	Describe("AddDiluent", func() {
		var m *thermochem.Mixture

		BeforeEach(func() {
			var err error
			m, err = thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("dilutes with a compound diluent preserving its ratio", func() {
			Expect(m.AddDiluent("N2:3.76 AR:1", 0.4)).To(Succeed())
			x, err := m.MoleFractions(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(x["N2"] + x["AR"]).To(BeNumerically("~", 0.4, 1e-12))
			Expect(x["N2"] / x["AR"]).To(BeNumerically("~", 3.76, 1e-9))
		})

		It("leaves the undiluted state untouched", func() {
			before, _ := m.MoleFractions(false)
			Expect(m.AddDiluent("AR", 0.5)).To(Succeed())
			after, _ := m.MoleFractions(false)
			Expect(after).To(Equal(before))
		})

		It("rejects the fuel or oxidizer as diluent", func() {
			Expect(m.AddDiluent("H2", 0.1)).To(MatchError(thermochem.ErrInvalidDiluent))
			Expect(m.AddDiluent("O2", 0.1)).To(MatchError(thermochem.ErrInvalidDiluent))
			Expect(m.AddDiluent("O2:1 N2:3.76", 0.1)).To(MatchError(thermochem.ErrInvalidDiluent))
			Expect(m.IsDiluted()).To(BeFalse())
		})

		It("names unknown diluent species", func() {
			err := m.AddDiluent("N2:1 Xx:1", 0.1)
			Expect(err).To(MatchError(thermochem.ErrUnknownSpecies))
			Expect(err.Error()).To(ContainSubstring("Xx"))

			err = m.AddDiluent("Wayne", 0.1)
			Expect(err).To(MatchError(thermochem.ErrUnknownSpecies))
			Expect(m.IsDiluted()).To(BeFalse())
		})

		It("rejects fractions outside [0, 1] without changes", func() {
			Expect(m.AddDiluent("AR", 0.2)).To(Succeed())
			for _, f := range []float64{-0.1, 1.1, math.NaN()} {
				Expect(m.AddDiluent("N2", f)).To(MatchError(thermochem.ErrInvalidDilution))
			}
			Expect(m.Diluent()).To(Equal("AR"))
			Expect(m.DiluentMoleFraction()).To(Equal(0.2))
		})

		It("replaces a previous dilution", func() {
			Expect(m.AddDiluent("AR", 0.2)).To(Succeed())
			Expect(m.AddDiluent("N2", 0.3)).To(Succeed())
			x, _ := m.MoleFractions(true)
			Expect(x["N2"]).To(BeNumerically("~", 0.3, 1e-12))
			Expect(x).NotTo(HaveKey("AR"))
		})

		It("gives a diluent-only state at fraction 1", func() {
			Expect(m.AddDiluent("AR", 1)).To(Succeed())
			x, _ := m.MoleFractions(true)
			Expect(x).To(HaveLen(1))
			Expect(x["AR"]).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Describe("partitioning", func() {
		It("splits the initial pressure over the species", func() {
			cfg.Diluent = "AR"
			cfg.DiluentMoleFraction = 0.3
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, diluted := range []bool{false, true} {
				p, err := m.Pressures(diluted)
				Expect(err).NotTo(HaveOccurred())
				Expect(sumValues(p)).To(BeNumerically("~", chem.OneAtm, 1e-6))
			}
			p, _ := m.Pressures(true)
			Expect(p["AR"].Value()).To(BeNumerically("~", 0.3*chem.OneAtm, 1e-6))
			Expect(p["AR"].Check(unit.Pascal)).To(Succeed())
		})

		It("returns ideal-gas masses in kilograms", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())

			v := units.CubicMeters(0.1)
			masses, err := m.Masses(v, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(masses).To(HaveLen(2))

			mw := 2.0/3.0*2.016 + 1.0/3.0*31.998
			want := chem.OneAtm * 0.1 * mw / (chem.GasConstant * 298.15)
			Expect(sumValues(masses)).To(BeNumerically("~", want, 1e-9))
			Expect(masses["H2"].Check(unit.Kilogram)).To(Succeed())

			h2 := chem.OneAtm * (2.0 / 3.0) * 0.1 * 2.016 / (chem.GasConstant * 298.15)
			Expect(masses["H2"].Value()).To(BeNumerically("~", h2, 1e-12))
		})

		It("requires a diluted state for diluted results", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = m.Pressures(true)
			Expect(err).To(MatchError(thermochem.ErrMixtureNotDiluted))
			_, err = m.Masses(units.CubicMeters(1), true)
			Expect(err).To(MatchError(thermochem.ErrMixtureNotDiluted))
			_, err = m.MoleFractions(true)
			Expect(err).To(MatchError(thermochem.ErrMixtureNotDiluted))
		})

		It("rejects a bad tube volume", func() {
			m, err := thermochem.NewMixture(provider, cfg)
			Expect(err).NotTo(HaveOccurred())
			_, err = m.Masses(units.CubicMeters(0), false)
			Expect(err).To(MatchError(units.ErrInvalidQuantity))
			_, err = m.Masses(units.Pascals(1), false)
			Expect(err).To(MatchError(units.ErrInvalidQuantity))
		})
	})
})
