package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	sdk "github.com/meshfx-dev/meshfx-sdk"
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/testing/mfxtest"
)

var smokeActions = []string{
	entities.ActionNameLoad,
	entities.ActionNameDescribe,
	entities.ActionNameCreateInstance,
	entities.ActionNameCook,
	entities.ActionNameDestroyInstance,
}

// smokeMesh is a unit quad split into two triangles.
func smokeMesh() *entities.Mesh {
	return &entities.Mesh{
		Points:   []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Vertices: []int32{0, 1, 2, 0, 2, 3},
		Faces:    []int32{3, 3},
	}
}

func newSmokeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run every plugin through its lifecycle against an in-memory host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			return smoke(cmd.OutOrStdout(), b)
		},
	}
}

func smoke(w io.Writer, b *sdk.Bundle) error {
	var failed []string
	for i := 0; i < b.NumberOfPlugins(); i++ {
		p, err := b.GetPlugin(i)
		if err != nil {
			return err
		}

		host := mfxtest.NewHost()
		p.SetHost(host)
		effect := host.NewEffect()
		host.SetInputMesh(effect, "MainInput", smokeMesh())

		statuses := host.RunActions(mfxtest.EntryFunc(p.MainEntry), effect, smokeActions...)

		parts := make([]string, len(statuses))
		ok := true
		for j, st := range statuses {
			parts[j] = fmt.Sprintf("%s=%s", entities.ParseAction(smokeActions[j]), st)
			if st.IsError() {
				ok = false
			}
		}
		if open := host.OpenMeshes(); open != 0 {
			parts = append(parts, fmt.Sprintf("open_meshes=%d", open))
			ok = false
		}
		if out := host.OutputMesh(effect, "MainOutput"); out != nil {
			parts = append(parts, "output="+out.Counts().String())
		}

		fmt.Fprintf(w, "%s: %s\n", p.Info.Identifier, strings.Join(parts, " "))
		if !ok {
			failed = append(failed, p.Info.Identifier)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("smoke test failed for %s", strings.Join(failed, ", "))
	}
	return nil
}
