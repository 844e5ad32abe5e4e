package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation_manager"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildRig(t *testing.T) {
	if _, err := buildRig(0); err == nil {
		t.Fatal("expected error for an empty rig")
	}

	r, err := buildRig(7)
	if err != nil {
		t.Fatalf("buildRig() error = %v", err)
	}
	if r.skel.NumBones() != 7 {
		t.Fatalf("NumBones() = %d, expected 7", r.skel.NumBones())
	}
	if got := r.skel.Bone(6).ParentIndex; got != 2 {
		t.Errorf("bone 6 parent = %d, expected 2", got)
	}
	if r.walk.Curves().Counts().Rotation != 7 {
		t.Errorf("walk rotation curves = %d, expected 7", r.walk.Curves().Counts().Rotation)
	}
	if !r.wave.IsAdditive() || len(r.wave.Events()) != 1 {
		t.Errorf("wave additive = %v, events = %v", r.wave.IsAdditive(), r.wave.Events())
	}

	// the bind pose skins to identity
	n := r.skel.NumBones()
	pose := skeleton.NewSkeletonPose(n)
	r.skel.GetPoseLayers(pose, skeleton.NewLocalSkeletonPose(n, n, n), nil, nil)
	out := make([]mgl32.Mat4, n)
	r.skel.SkinningMatrices(pose, out)
	for i, m := range out {
		if !m.ApproxEqualThreshold(mgl32.Ident4(), 1e-5) {
			t.Errorf("skinning matrix %d = %v, expected identity", i, m)
		}
	}
}

func TestBenchFixed(t *testing.T) {
	logger := log.New(io.Discard)
	m := animation_manager.NewAnimationManager(
		animation_manager.WithConfig(config.DefaultManager()),
		animation_manager.WithLogger(logger),
	)
	defer m.Close()
	eng := engine.NewEngine(engine.WithManager(m), engine.WithLogger(logger))

	res, err := bench(eng, benchOptions{animations: 3, bones: 7, ticks: 30, fps: 60, fixed: true, swapEvery: 10})
	if err != nil {
		t.Fatalf("bench() error = %v", err)
	}
	if res.Ticks != 30 {
		t.Errorf("Ticks = %d, expected 30", res.Ticks)
	}
	if res.Stats.Evaluations != 90 {
		t.Errorf("Evaluations = %d, expected 90", res.Stats.Evaluations)
	}
	if res.Stats.SkeletonRebuilds != 3 {
		t.Errorf("SkeletonRebuilds = %d, expected 3", res.Stats.SkeletonRebuilds)
	}
	if res.Events != 3 {
		t.Errorf("Events = %d, expected one wave per rig", res.Events)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after bench, expected 0", m.Count())
	}

	var buf bytes.Buffer
	printResult(&buf, res)
	if !strings.Contains(buf.String(), "evaluations:       90") {
		t.Errorf("summary missing evaluations: %q", buf.String())
	}
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animation.yaml")
	if err := os.WriteFile(path, []byte("update_rate: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "--config", path})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "update_rate: 30") {
		t.Errorf("output %q missing update_rate: 30", out.String())
	}
}
