package bench

import (
	"math"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/control"
	"github.com/born-ml/gradtape/internal/dmath"
)

// Fuzzer-generated expressions. The ternary variants branch on
// intermediate values.

type num = autodiff.Var

const degrees = 180 / math.Pi

var (
	sin = dmath.Sin
	cos = dmath.Cos
)

// dm1 returns a*b - 1.
func dm1(a, b num) num { return a.Mul(b).SubConst(1) }

// over returns a / (0.001 + b).
func over(a, b num) num { return a.Div(b.AddConst(0.001)) }

// ratio returns (a + b) / (a - b + 0.001).
func ratio(a, b num) num { return a.Add(b).Div(a.Sub(b).AddConst(0.001)) }

// lesser returns a < b ? a : b.
func lesser(a, b num) num { return control.Select(a.Value() < b.Value(), a, b) }

// FuzzedMath1 mixes sums, products and trigonometry.
func FuzzedMath1(x0, x1, x2 num) num {
	y := x0
	t3 := x0.Add(x2).Add(x2)
	t4 := x1.Add(t3)
	t5 := x0.Add(t3)
	t6 := t3.Sub(x1)
	t7 := x1.Mul(t5)
	t8 := t7.Add(x1).Add(x0)
	t10 := t8.Add(x0)
	t11 := t4.Mul(cos(t10.MulConst(degrees)))
	t12 := sin(x2.Mul(t8))
	t13 := t3.Mul(t8).Mul(t4)
	t14 := t11.Sub(t11)
	t15 := x1.Sub(t4).Sub(x1)
	t16 := t8.Mul(sin(t6.MulConst(degrees)))
	t17 := t3.Mul(t3)
	t18 := t11.Sub(x1).Sub(t13)
	t19 := sin(t10.Mul(t15))
	t20 := sin(t17.Mul(t14))
	t22 := t17.Mul(t13)
	t23 := x2.Mul(t12).Mul(t11)
	t24 := t13.Sub(t23).Sub(t17).Sub(t22)
	t25 := t6.Sub(t6)
	t27 := x1.Add(x0)
	t31 := t25.Sub(t19).Sub(t20)
	t33 := t18.Add(t19).Add(x1)
	t35 := dm1(t3, t12)
	t37 := t15.Mul(cos(t16.MulConst(degrees)))
	t41 := sin(t35.Mul(t15))
	t49 := over(t31, t24)
	t51 := dm1(x2, t49)
	t54 := t8.Mul(sin(t25.MulConst(degrees)))
	t64 := t20.Mul(t24).Mul(t25)
	t72 := t41.Mul(t27).Mul(t33)
	t78 := t14.Sub(t72).Sub(t54)
	t86 := t78.Add(t64)
	t102 := t37.Mul(t86).Mul(t51)
	return y.Add(t102)
}

// FuzzedMath2 mixes sums, products, quotients and trigonometry.
func FuzzedMath2(x0, x1, x2 num) num {
	y := x0
	t3 := x2.Mul(cos(x2.MulConst(degrees)))
	t4 := t3.Mul(x0)
	t5 := dm1(t4, t4)
	t6 := x2.Mul(x1).Mul(t3)
	t7 := t4.Mul(cos(x1.MulConst(degrees)))
	t8 := x2.Mul(sin(x1.MulConst(degrees)))
	t9 := over(t7, t3)
	t10 := x0.Mul(cos(x0.MulConst(degrees)))
	t12 := sin(t9.Mul(t8))
	t13 := t5.Mul(cos(t10.MulConst(degrees)))
	t14 := dm1(t7, t8)
	t15 := t10.Add(t4).Add(x2)
	t16 := dm1(t3, t7)
	t17 := dm1(t16, t4)
	t18 := t5.Add(t3).Add(t16)
	t19 := t4.Add(t16)
	t22 := t3.Add(t19).Add(t6)
	t23 := over(t22, t22)
	t24 := t15.Mul(cos(x0.MulConst(degrees)))
	t26 := sin(t8.Mul(t15))
	t27 := t26.Sub(x1)
	t31 := t7.Mul(sin(t12.MulConst(degrees)))
	t32 := t7.Sub(t22).Sub(t26).Sub(t23)
	t33 := t16.Mul(cos(t3.MulConst(degrees)))
	t35 := t15.Sub(t14).Sub(t33)
	t36 := t8.Add(x0).Add(x1)
	t39 := over(t6, t6)
	t40 := t27.Mul(cos(t8.MulConst(degrees)))
	t41 := over(t16, t35)
	t46 := dm1(t17, t32)
	t50 := t18.Add(t41).Add(t46)
	t52 := x2.Add(t39)
	t54 := t40.Mul(t4).Mul(t31)
	t61 := over(t36, t52)
	t64 := t50.Mul(cos(t24.MulConst(degrees)))
	t74 := t14.Add(t13).Add(t54)
	t90 := t74.Sub(t61).Sub(t10)
	t98 := over(t90, t64)
	t102 := over(t98, t9)
	return y.Add(t102)
}

// FuzzedTernary1 includes two data-dependent selections.
func FuzzedTernary1(x0, x1, x2 num) num {
	y := x0
	t3 := x1.Add(x1).Add(x1)
	t4 := x1.Mul(x1).Mul(x0)
	t5 := x0.Sub(x2).Sub(t4)
	t6 := ratio(t4, t3)
	t7 := x2.Add(x0).Add(t5)
	t9 := dm1(x1, t7)
	t10 := sin(t4).Mul(sin(t6))
	t11 := sin(t6).Mul(sin(t6))
	t12 := cos(t9).Mul(cos(t6))
	t15 := over(t12, x1)
	t16 := x0.Mul(t7).Mul(x1)
	t17 := over(t6, x1)
	t18 := sin(t10).Mul(sin(t4))
	t19 := ratio(t11, t16)
	t22 := dm1(t11, t11)
	t23 := dm1(x1, t10)
	t25 := lesser(t17, t23)
	t26 := over(t16, t12)
	t28 := over(t26, t16)
	t30 := t28.Mul(sin(t23.MulConst(degrees)))
	t31 := t28.Mul(t18).Mul(t19)
	t33 := t18.Add(t28).Add(t5).Add(t31).Add(t15)
	t41 := ratio(t33, t6)
	t42 := t7.Mul(t6).Mul(t30)
	t43 := lesser(t16, t18)
	t59 := cos(t12).Mul(cos(t25))
	t81 := t42.Add(t59).Add(t22).Add(t43).Add(t41)
	t102 := t81.Add(t33).Add(t11)
	return y.Add(t102)
}

// FuzzedTernary2 includes a minimum and a maximum selection.
func FuzzedTernary2(x0, x1, x2 num) num {
	y := x0
	t3 := x2.Mul(x1)
	t4 := over(t3, t3)
	t5 := x2.Add(t3).Add(x0)
	t6 := t4.Sub(t3)
	t8 := x1.Mul(sin(x1.MulConst(degrees)))
	t9 := t5.Mul(sin(x2.MulConst(degrees)))
	t10 := t8.Sub(t6).Sub(t9)
	t11 := t6.Mul(t8)
	t12 := ratio(t10, t4)
	t13 := x2.Mul(t12)
	t14 := over(t6, t11)
	t15 := t8.Sub(x1).Sub(x2)
	t18 := sin(x2).Mul(sin(t14))
	t19 := lesser(t12, t6)
	t20 := t4.Mul(x0)
	t21 := ratio(t14, t8)
	t22 := ratio(t6, x1)
	t23 := sin(x1.Mul(t5))
	t25 := t18.Mul(t20).Mul(t13)
	t31 := t21.Sub(t6).Sub(t19).Sub(t23)
	t34 := t15.Sub(t31).Sub(t13).Sub(t25)
	t49 := control.Select(t5.Value() > t22.Value(), t5, t22)
	t102 := dm1(t34, t49)
	return y.Add(t102)
}
