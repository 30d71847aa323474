package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane 创建位于 XY 平面、法线朝 +Z 的矩形，中心在原点
func Plane(width, height float64) *Mesh {
	return PlaneSegments(width, height, 1, 1)
}

// PlaneSegments 创建细分的矩形平面
//
// 细分主要服务于渲染：雾效按顶点计算，大三角形会让整块地面被错误地雾化。
func PlaneSegments(width, height float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	gridX1 := widthSegments + 1
	gridY1 := heightSegments + 1
	segW := width / float64(widthSegments)
	segH := height / float64(heightSegments)

	m := &Mesh{Mode: ModeTriangles}
	for iy := 0; iy < gridY1; iy++ {
		y := float64(iy)*segH - height/2
		for ix := 0; ix < gridX1; ix++ {
			x := float64(ix)*segW - width/2
			m.Positions = append(m.Positions, mgl64.Vec3{x, -y, 0})
			m.Normals = append(m.Normals, mgl64.Vec3{0, 0, 1})
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}

// boxFace 描述立方体的一个面：法线 n，面内坐标轴 u、v（u × v = n）
type boxFace struct {
	n, u, v mgl64.Vec3
}

var boxFaces = []boxFace{
	{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}},
	{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
	{mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},
	{mgl64.Vec3{0, -1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},
	{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
	{mgl64.Vec3{0, 0, -1}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 1, 0}},
}

// Box 创建中心在原点的长方体
func Box(width, height, depth float64) *Mesh {
	half := mgl64.Vec3{width / 2, height / 2, depth / 2}
	abs := func(v mgl64.Vec3) mgl64.Vec3 {
		return mgl64.Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
	}

	m := &Mesh{Mode: ModeTriangles}
	for _, f := range boxFaces {
		center := mgl64.Vec3{f.n[0] * half[0], f.n[1] * half[1], f.n[2] * half[2]}
		hu := f.u.Mul(abs(f.u).Dot(half))
		hv := f.v.Mul(abs(f.v).Dot(half))

		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			center.Sub(hu).Sub(hv),
			center.Add(hu).Sub(hv),
			center.Add(hu).Add(hv),
			center.Sub(hu).Add(hv),
		)
		m.Normals = append(m.Normals, f.n, f.n, f.n, f.n)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere 创建 UV 球体，顶点排列与 three.js SphereGeometry 相同
func Sphere(radius float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	m := &Mesh{Mode: ModeTriangles}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			p := mgl64.Vec3{
				-radius * math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
				radius * math.Cos(v*math.Pi),
				radius * math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
			}
			row[ix] = uint32(len(m.Positions))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, p.Normalize())
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Cone 创建中心在原点、尖端朝 +Y 的圆锥（含底面）
func Cone(radius, height float64, radialSegments int) *Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	halfH := height / 2
	m := &Mesh{Mode: ModeTriangles}

	// 侧面：第 0 行是尖端（半径 0），第 1 行是底边
	rows := [2][]uint32{}
	for y := 0; y <= 1; y++ {
		r := float64(y) * radius
		row := make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			theta := float64(x) / float64(radialSegments) * 2 * math.Pi
			row[x] = uint32(len(m.Positions))
			m.Positions = append(m.Positions, mgl64.Vec3{r * math.Sin(theta), -float64(y)*height + halfH, r * math.Cos(theta)})
			slope := radius / height
			m.Normals = append(m.Normals, mgl64.Vec3{math.Sin(theta), slope, math.Cos(theta)}.Normalize())
		}
		rows[y] = row
	}
	for x := 0; x < radialSegments; x++ {
		b := rows[1][x]
		c := rows[1][x+1]
		d := rows[0][x+1]
		m.Indices = append(m.Indices, b, c, d)
	}

	// 底面
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, mgl64.Vec3{0, -halfH, 0})
	m.Normals = append(m.Normals, mgl64.Vec3{0, -1, 0})
	ring := uint32(len(m.Positions))
	for x := 0; x <= radialSegments; x++ {
		theta := float64(x) / float64(radialSegments) * 2 * math.Pi
		m.Positions = append(m.Positions, mgl64.Vec3{radius * math.Sin(theta), -halfH, radius * math.Cos(theta)})
		m.Normals = append(m.Normals, mgl64.Vec3{0, -1, 0})
	}
	for x := uint32(0); x < uint32(radialSegments); x++ {
		m.Indices = append(m.Indices, ring+x+1, ring+x, center)
	}
	return m
}

// Edges 提取网格的轮廓线：只属于一个三角形的边，或相邻面夹角超过 thresholdDeg 的边
//
// 顶点按位置去重，因此共享位置但不共享索引的面也能正确识别为相邻。
func Edges(src *Mesh, thresholdDeg float64) *Mesh {
	type edgeInfo struct {
		a, b   mgl64.Vec3
		normal mgl64.Vec3
		shared bool
		keep   bool
	}

	key := func(p mgl64.Vec3) string {
		return fmt.Sprintf("%.4f,%.4f,%.4f", p[0], p[1], p[2])
	}
	thresholdDot := math.Cos(mgl64.DegToRad(thresholdDeg))

	edges := make(map[string]*edgeInfo)
	order := make([]string, 0)

	for i := 0; i < src.TriangleCount(); i++ {
		ia, ib, ic := src.Triangle(i)
		tri := [3]mgl64.Vec3{src.Positions[ia], src.Positions[ib], src.Positions[ic]}
		n := FaceNormal(tri[0], tri[1], tri[2])
		for j := 0; j < 3; j++ {
			p, q := tri[j], tri[(j+1)%3]
			k1, k2 := key(p), key(q)
			if k1 > k2 {
				k1, k2 = k2, k1
			}
			k := k1 + "|" + k2
			if e, ok := edges[k]; ok {
				e.shared = true
				e.keep = e.normal.Dot(n) <= thresholdDot
				continue
			}
			edges[k] = &edgeInfo{a: p, b: q, normal: n, keep: true}
			order = append(order, k)
		}
	}

	out := &Mesh{Mode: ModeLines}
	for _, k := range order {
		e := edges[k]
		if !e.keep {
			continue
		}
		base := uint32(len(out.Positions))
		out.Positions = append(out.Positions, e.a, e.b)
		out.Indices = append(out.Indices, base, base+1)
	}
	return out
}

// Grid 创建 XZ 平面上的网格线，中心线使用 centerColor，其余使用 lineColor
func Grid(size float64, divisions int, centerColor, lineColor mgl64.Vec3) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	step := size / float64(divisions)
	half := size / 2
	center := divisions / 2

	m := &Mesh{Mode: ModeLines}
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		c := lineColor
		if i == center {
			c = centerColor
		}
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			mgl64.Vec3{-half, 0, k}, mgl64.Vec3{half, 0, k},
			mgl64.Vec3{k, 0, -half}, mgl64.Vec3{k, 0, half},
		)
		m.Colors = append(m.Colors, c, c, c, c)
		m.Indices = append(m.Indices, base, base+1, base+2, base+3)
	}
	return m
}
