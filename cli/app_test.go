package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"armik"}, args...))
	return out.String(), err
}

func TestForwardKinematicsCommand(t *testing.T) {
	out, err := runApp(t, "fk", "--preset", "planar")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "link5")
	test.That(t, out, test.ShouldContainSubstring, "Y:-5.000")

	// one value per rotational joint
	out, err = runApp(t, "fk", "--joints", "0,1.5707963267948966,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "X:-0.550")

	_, err = runApp(t, "fk", "--joints", "1,2")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = runApp(t, "fk", "--preset", "scara")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolveCommand(t *testing.T) {
	out, err := runApp(t, "solve", "--preset", "planar", "--target", "0,-1,10", "--max-iterations", "20")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Warning: converged: false")

	out, err = runApp(t, "solve", "--target", "0,0,-0.55")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Info: converged: true, iterations: 0")

	out, err = runApp(t, "solve", "--target", "0.03,0.02,-0.53", "--pole", "1,0,-0.3", "--max-iterations", "100")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "elbow_y")

	_, err = runApp(t, "solve", "--preset", "planar", "--target", "0,-1,3", "--pole", "1,0,0", "--pole-joint", "link2")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = runApp(t, "solve", "--target", "0,0,-0.5", "--solver", "fabrik")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = runApp(t, "solve", "--target", "0,0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.json")
	data := []byte(`{
		"name": "wrist",
		"solver": "ccd",
		"solver_attributes": {"allowable_target_distance": 0.001, "allowable_target_angle": 0.001, "max_iterations": 10},
		"joints": [
			{"id": "wrist", "type": "revolute", "axis": {"x": 0, "y": 1, "z": 0}},
			{"id": "tool", "type": "fixed", "offset": {"x": 1, "y": 0, "z": 0}}
		]
	}`)
	test.That(t, os.WriteFile(path, data, 0o600), test.ShouldBeNil)

	out, err := runApp(t, "solve", "--config", path, "--target", "0.8775825618903728,0,-0.479425538604203", "--axis-angle", "0.5,0,1,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Info: converged: true")
	// 0.5 rad about y
	test.That(t, out, test.ShouldContainSubstring, "28.65")
}

func TestSchemaCommand(t *testing.T) {
	out, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "solver_attributes")
	test.That(t, out, test.ShouldContainSubstring, "model_path")
}
