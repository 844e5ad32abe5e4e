package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

// sceneMapping binds a curve or bone name to a scene object. rest is the object's local
// transform when it was mapped; channels no curve drives keep it.
type sceneMapping struct {
	name string
	obj  SceneObject
	rest skeleton.Transform
}

func (a *animation) MapCurveToSceneObject(name string, obj SceneObject) {
	if obj == nil {
		return
	}
	for i := range a.scene {
		if a.scene[i].obj == obj {
			a.scene[i].name = name
			a.dirty.raise(dirtyLayout)
			return
		}
	}
	a.scene = append(a.scene, sceneMapping{name: name, obj: obj, rest: obj.LocalTransform()})
	a.dirty.raise(dirtyLayout)
}

func (a *animation) UnmapSceneObject(obj SceneObject) {
	for i := range a.scene {
		if a.scene[i].obj == obj {
			a.scene = append(a.scene[:i], a.scene[i+1:]...)
			a.dirty.raise(dirtyLayout)
			return
		}
	}
}

// applySceneObjects writes the evaluated transforms of mapped objects. The mapping list and
// the frame's object list line up unless a mapping edit is still waiting for its rebuild.
func (a *animation) applySceneObjects() {
	f := a.proxy.frame.Load()
	if f == nil || a.dirty >= dirtyLayout || len(f.objects) != len(a.scene) {
		return
	}
	for i := range a.scene {
		if f.objectOverride[i] {
			a.scene[i].obj.SetLocalTransform(f.objectPoses[i])
		}
	}
}
