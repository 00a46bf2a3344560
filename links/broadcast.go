// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package links

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/views"
)

func (lg *Logic) broadcastSlice(src *views.SliceNode, sibs []*views.SliceNode) {
	flags := src.BroadcastFlags()
	for _, s := range sibs {
		// orientation is compared before the orientation flag changes it
		sameOrientation := src.IsOrientationMatching(s, lg.OrientationTolerance)
		func() {
			defer s.ModifyScope()()
			if flags.HasFlag(views.SliceToRASFlag) && sameOrientation {
				s.SetSliceToRAS(src.SliceToRAS)
			}
			if flags.HasFlag(views.SliceXYZOriginFlag) && sameOrientation {
				s.SetXYZOrigin(src.XYZOrigin)
			}
			if flags.HasFlag(views.SliceOrientationFlag) && src.OrientationName != views.Reformat {
				s.SetOrientation(src.OrientationName)
			}
			if flags.HasFlag(views.SliceResetOrientationFlag) {
				s.ResetOrientation()
			}
			if flags.HasFlag(views.SliceRotateToBackgroundVolumePlaneFlag) {
				if c := s.CompositeNode(); c != nil {
					s.RotateToVolumePlane(c.BackgroundVolume())
				}
			}
			if flags.HasFlag(views.SliceFieldOfViewFlag) {
				s.SetFieldOfView(scaledFieldOfView(src.FieldOfView, s.FieldOfView))
			}
			if flags.HasFlag(views.SliceResetFieldOfViewFlag) {
				s.ResetFieldOfView()
			}
			if flags.HasFlag(views.SliceLabelOutlineFlag) {
				s.SetLabelOutline(src.LabelOutline)
			}
			if flags.HasFlag(views.SliceVisibleFlag) {
				s.SetSliceVisible(src.SliceVisible)
			}
			if flags.HasFlag(views.SliceSpacingFlag) {
				s.SetSliceSpacingMode(src.SliceSpacingMode)
				s.SetPrescribedSliceSpacing(src.PrescribedSliceSpacing)
			}
		}()
	}
}

// scaledFieldOfView returns the field of view of a sibling slice with
// the width of src, keeping the aspect ratio and depth of dst.
func scaledFieldOfView(src, dst mgl32.Vec3) mgl32.Vec3 {
	if dst[0] == 0 {
		return mgl32.Vec3{src[0], src[1], dst[2]}
	}
	return mgl32.Vec3{src[0], src[0] * dst[1] / dst[0], dst[2]}
}

func (lg *Logic) broadcastComposite(src *views.SliceCompositeNode, sibs []*views.SliceCompositeNode) {
	flags := src.BroadcastFlags()
	for _, c := range sibs {
		func() {
			defer c.ModifyScope()()
			if flags.HasFlag(views.BackgroundVolumeFlag) {
				c.SetLayerVolumeID(views.BackgroundVolumeRole, src.LayerVolumeID(views.BackgroundVolumeRole))
			}
			if flags.HasFlag(views.ForegroundVolumeFlag) {
				c.SetLayerVolumeID(views.ForegroundVolumeRole, src.LayerVolumeID(views.ForegroundVolumeRole))
			}
			if flags.HasFlag(views.LabelVolumeFlag) {
				c.SetLayerVolumeID(views.LabelVolumeRole, src.LayerVolumeID(views.LabelVolumeRole))
			}
			if flags.HasFlag(views.ForegroundOpacityFlag) {
				c.SetForegroundOpacity(src.ForegroundOpacity)
			}
			if flags.HasFlag(views.LabelOpacityFlag) {
				c.SetLabelOpacity(src.LabelOpacity)
			}
		}()
	}
}

func (lg *Logic) broadcastView(src *views.ViewNode, sibs []*views.ViewNode) {
	flags := src.BroadcastFlags()
	for _, v := range sibs {
		func() {
			defer v.ModifyScope()()
			if flags.HasFlag(views.ViewFieldOfViewFlag) {
				v.SetFieldOfView(src.FieldOfView)
			}
			if flags.HasFlag(views.ViewBackgroundColorFlag) {
				v.SetBackgroundColor(src.BackgroundColor)
			}
			if flags.HasFlag(views.ViewBoxVisibleFlag) {
				v.SetBoxVisible(src.BoxVisible)
			}
			if flags.HasFlag(views.ViewAxisLabelsVisibleFlag) {
				v.SetAxisLabelsVisible(src.AxisLabelsVisible)
			}
			if flags.HasFlag(views.ViewRenderModeFlag) {
				v.SetRenderMode(src.RenderMode)
			}
			if flags.HasFlag(views.ViewAnimationModeFlag) {
				v.SetAnimationMode(src.AnimationMode)
			}
			if flags.HasFlag(views.ViewOrientationMarkerTypeFlag) {
				v.SetOrientationMarkerType(src.OrientationMarkerType)
			}
			if flags.HasFlag(views.ViewRulerTypeFlag) {
				v.SetRulerType(src.RulerType)
			}
		}()
	}
}

func (lg *Logic) broadcastCamera(src *views.CameraNode, sibs []*views.CameraNode) {
	flags := src.BroadcastFlags()
	for _, c := range sibs {
		func() {
			defer c.ModifyScope()()
			if flags.HasFlag(views.CameraPoseFlag) {
				c.SetPose(src.Position, src.FocalPoint, src.ViewUp)
			}
			if flags.HasFlag(views.CameraLookFromAxisFlag) {
				c.LookFromAxis(src.LookAxis)
			}
			if flags.HasFlag(views.CameraCenterFlag) {
				c.SetFocalPoint(src.FocalPoint)
			}
			if flags.HasFlag(views.CameraZoomFlag) {
				c.SetDistance(src.Distance())
				c.SetViewAngle(src.ViewAngle)
				c.SetParallelScale(src.ParallelScale)
			}
		}()
	}
}
