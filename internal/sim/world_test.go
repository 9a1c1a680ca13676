package sim

import (
	"testing"

	"github.com/Faultbox/clothsim/internal/logger"
	"github.com/Faultbox/clothsim/pkg/cloth"
	"github.com/Faultbox/clothsim/pkg/math"
)

func initTestLogger(t *testing.T) {
	t.Helper()
	// No console, no file: logging becomes a no-op in tests.
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		t.Fatalf("failed to init test logger: %v", err)
	}
}

func flatGrid(nx, ny int) *cloth.Mesh {
	mesh, err := cloth.Rectangle(nx, ny, math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1})
	if err != nil {
		panic(err)
	}
	return mesh
}

func TestInstanceInactiveUntilMesh(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	inst := w.Attach("flag", math.Identity(), cloth.BuildOptions{})
	w.Tick(1.0 / 60)
	if inst.Cloth() != nil {
		t.Fatal("instance should stay inactive without mesh data")
	}

	inst.SetMesh(flatGrid(3, 3))
	w.Tick(1.0 / 60)
	if inst.Cloth() == nil {
		t.Fatal("instance should activate once mesh data is available")
	}
	// The first active tick already simulated: the free grid fell.
	if y := inst.Cloth().Points()[0].Current.Y; y >= 0 {
		t.Errorf("point Y = %v after tick, want below 0", y)
	}
}

func TestBuildFailureDeactivatesInstance(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	inst := w.Attach("bad", math.Identity(), cloth.BuildOptions{
		Anchors: []cloth.AnchorSet{{IDs: []int{999}}},
	})
	inst.SetMesh(flatGrid(2, 2))
	w.Tick(1.0 / 60)
	w.Tick(1.0 / 60)
	if inst.Cloth() != nil {
		t.Fatal("instance with invalid anchors should not build")
	}
}

func TestConfigOverride(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	inst := w.Attach("custom", math.Identity(), cloth.BuildOptions{})
	override := cloth.DefaultConfig()
	override.Friction = 0.5
	if err := inst.SetConfig(override); err != nil {
		t.Fatalf("SetConfig() failed: %v", err)
	}
	inst.SetMesh(flatGrid(2, 2))
	w.Tick(1.0 / 60)
	if got := inst.Cloth().Config().Friction; got != 0.5 {
		t.Errorf("built cloth friction = %v, want override 0.5", got)
	}
}

func TestAnchorFollowsRegisteredTarget(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	target := w.RegisterTarget(math.Translate(4, 2, 0))

	inst := w.Attach("anchored", math.Identity(), cloth.BuildOptions{
		Anchors: []cloth.AnchorSet{{
			Anchor: cloth.Anchor{Target: target},
			IDs:    []int{0},
		}},
	})
	inst.SetMesh(flatGrid(2, 2))
	w.Tick(1.0 / 60)

	want := math.Vec3{X: 4, Y: 2}
	if got := inst.Cloth().Points()[0].Current; got != want {
		t.Errorf("anchored point at %v, want %v", got, want)
	}

	w.MoveTarget(target, math.Translate(4, 3, 0))
	w.Tick(1.0 / 60)
	want = math.Vec3{X: 4, Y: 3}
	if got := inst.Cloth().Points()[0].Current; got != want {
		t.Errorf("anchored point at %v after target move, want %v", got, want)
	}
}

type recordingConsumer struct {
	boxes []cloth.AABB
}

func (r *recordingConsumer) UpdateAABB(box cloth.AABB) {
	r.boxes = append(r.boxes, box)
}

func TestConsumerReceivesBounds(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	inst := w.Attach("observed", math.Identity(), cloth.BuildOptions{})
	inst.SetMesh(flatGrid(3, 3))
	inst.SetPadding(0.25)

	rec := &recordingConsumer{}
	inst.AddConsumer(rec)

	w.Tick(1.0 / 60)
	w.Tick(1.0 / 60)
	if len(rec.boxes) != 2 {
		t.Fatalf("consumer received %d updates, want 2", len(rec.boxes))
	}
	box := rec.boxes[0]
	if box.Max.X-box.Min.X < 2 {
		t.Errorf("bounds width %v, want at least the grid extent", box.Max.X-box.Min.X)
	}
}

func TestInvalidDefaultsRejected(t *testing.T) {
	bad := cloth.DefaultConfig()
	bad.Iterations = 0
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for invalid default config")
	}
}

func TestSetMeshRebuildsActiveInstance(t *testing.T) {
	initTestLogger(t)
	w, err := New(cloth.DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	inst := w.Attach("flag", math.Identity(), cloth.BuildOptions{})
	inst.SetMesh(flatGrid(2, 2))
	w.Tick(1.0 / 60)
	first := inst.Cloth()
	if first == nil {
		t.Fatal("instance should be active")
	}

	inst.SetMesh(flatGrid(4, 4))
	if inst.Cloth() != nil {
		t.Fatal("instance should deactivate until the new mesh is built")
	}
	w.Tick(1.0 / 60)
	second := inst.Cloth()
	if second == nil {
		t.Fatal("instance should rebuild from the new mesh")
	}
	if second == first {
		t.Error("rebuild should produce a fresh cloth")
	}
	if got := len(second.Points()); got != 16 {
		t.Errorf("rebuilt cloth has %d points, want 16", got)
	}
}
