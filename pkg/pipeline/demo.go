package pipeline

// DemoSource is the example circuit run by "qtranspile demo": a GHZ-style
// entangler on three qubits followed by two quarter-turn rz rotations.
const DemoSource = `OPENQASM 2.0;
qreg q[3];
creg c[3];
h q[0];
cx q[0], q[1];
cx q[1], q[2];
rz(1.5708) q[2];
rz(1.5708) q[2];
`
