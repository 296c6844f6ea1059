package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var named = map[string]string{
	"white":  "#FFFFFF",
	"black":  "#000000",
	"red":    "#FF5555",
	"green":  "#50FA7B",
	"blue":   "#8BA4E8",
	"yellow": "#F1FA8C",
	"pink":   "#E8A4C8",
	"gray":   "#808080",
	"grey":   "#808080",
}

func Normalize(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if hex, ok := named[c]; ok {
		return hex
	}

	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return "#FFFFFF"
	}
	if _, err := strconv.ParseUint(c, 16, 32); err != nil {
		return "#FFFFFF"
	}
	return "#" + strings.ToUpper(c)
}

// Blend interpolates in lch space so fades stay perceptually even.
func Blend(hex1 string, hex2 string, t float64) string {
	if t <= 0 {
		return Normalize(hex1)
	}
	if t >= 1 {
		return Normalize(hex2)
	}

	l1, c1, h1 := rgbToLCH(HexToRGB(hex1))
	l2, c2, h2 := rgbToLCH(HexToRGB(hex2))

	// shortest way round the hue wheel
	hueDiff := h2 - h1
	if hueDiff > 180 {
		hueDiff -= 360
	} else if hueDiff < -180 {
		hueDiff += 360
	}

	h := math.Mod(h1+t*hueDiff+360, 360)
	return RGBToHex(lchToRGB(l1+t*(l2-l1), c1+t*(c2-c1), h))
}

func Dim(hex string, amount float64) string {
	r, g, b := HexToRGB(hex)
	gray := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	keep := 1 - amount
	mix := func(v int) int {
		desat := float64(v) + (gray-float64(v))*amount*0.5
		return clampInt(int(desat*keep+0.5), 0, 255)
	}
	return RGBToHex(mix(r), mix(g), mix(b))
}

func RGBToHex(r int, g int, b int) string {
	r = clampInt(r, 0, 255)
	g = clampInt(g, 0, 255)
	b = clampInt(b, 0, 255)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func clampInt(val int, min int, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func rgbToLCH(r int, g int, b int) (float64, float64, float64) {
	// convert rgb to xyz
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	// apply gamma correction
	if rf > 0.04045 {
		rf = math.Pow((rf+0.055)/1.055, 2.4)
	} else {
		rf = rf / 12.92
	}
	if gf > 0.04045 {
		gf = math.Pow((gf+0.055)/1.055, 2.4)
	} else {
		gf = gf / 12.92
	}
	if bf > 0.04045 {
		bf = math.Pow((bf+0.055)/1.055, 2.4)
	} else {
		bf = bf / 12.92
	}

	// convert to xyz (d65 illuminant)
	x := rf*0.4124564 + gf*0.3575761 + bf*0.1804375
	y := rf*0.2126729 + gf*0.7151522 + bf*0.0721750
	z := rf*0.0193339 + gf*0.1191920 + bf*0.9503041

	// convert xyz to lab
	x = x / 0.95047
	y = y / 1.00000
	z = z / 1.08883

	labFunc := func(t float64) float64 {
		if t > 0.008856 {
			return math.Pow(t, 1.0/3.0)
		}
		return (7.787 * t) + (16.0 / 116.0)
	}

	x = labFunc(x)
	y = labFunc(y)
	z = labFunc(z)

	l := (116.0 * y) - 16.0
	labA := 500.0 * (x - y)
	labB := 200.0 * (y - z)

	// convert lab to lch
	c := math.Sqrt(labA*labA + labB*labB)
	h := math.Atan2(labB, labA) * 180.0 / math.Pi
	if h < 0 {
		h += 360
	}

	return l, c, h
}

func lchToRGB(l float64, c float64, h float64) (int, int, int) {
	// convert lch to lab
	hRad := h * math.Pi / 180.0
	labA := c * math.Cos(hRad)
	labB := c * math.Sin(hRad)

	// convert lab to xyz
	y := (l + 16.0) / 116.0
	x := labA/500.0 + y
	z := y - labB/200.0

	labInvFunc := func(t float64) float64 {
		t3 := t * t * t
		if t3 > 0.008856 {
			return t3
		}
		return (t - 16.0/116.0) / 7.787
	}

	x = labInvFunc(x) * 0.95047
	y = labInvFunc(y) * 1.00000
	z = labInvFunc(z) * 1.08883

	// convert xyz to rgb
	rLin := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	gLin := x*-0.9692660 + y*1.8760108 + z*0.0415560
	bLin := x*0.0556434 + y*-0.2040259 + z*1.0572252

	// apply inverse gamma correction
	gammaInv := func(t float64) float64 {
		if t > 0.0031308 {
			return 1.055*math.Pow(t, 1.0/2.4) - 0.055
		}
		return 12.92 * t
	}

	rLin = gammaInv(rLin)
	gLin = gammaInv(gLin)
	bLin = gammaInv(bLin)

	// convert to 0-255 range
	ri := clampInt(int(rLin*255.0+0.5), 0, 255)
	gi := clampInt(int(gLin*255.0+0.5), 0, 255)
	bi := clampInt(int(bLin*255.0+0.5), 0, 255)

	return ri, gi, bi
}

func HexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(Normalize(hex), "#")
	if len(hex) != 6 {
		return 255, 255, 255
	}

	r, err := strconv.ParseInt(hex[0:2], 16, 64)
	if err != nil {
		r = 255
	}
	g, err := strconv.ParseInt(hex[2:4], 16, 64)
	if err != nil {
		g = 255
	}
	b, err := strconv.ParseInt(hex[4:6], 16, 64)
	if err != nil {
		b = 255
	}

	return int(r), int(g), int(b)
}
