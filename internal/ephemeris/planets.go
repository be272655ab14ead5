package ephemeris

// elements returns the mean elements for day number d: a (AU), e, and N,
// i, w, M in degrees.
type elementsFunc func(d float64) (a, e, N, i, w, M float64)

func mercury(d float64) (a, e, N, i, w, M float64) {
	return 0.387098,
		0.205635 + 5.59e-10*d,
		48.3313 + 3.24587e-5*d,
		7.0047 + 5.00e-8*d,
		29.1241 + 1.01444e-5*d,
		168.6562 + 4.0923344368*d
}

func venus(d float64) (a, e, N, i, w, M float64) {
	return 0.723330,
		0.006773 - 1.302e-9*d,
		76.6799 + 2.46590e-5*d,
		3.3946 + 2.75e-8*d,
		54.8910 + 1.38374e-5*d,
		48.0052 + 1.6021302244*d
}

// earth is the Sun's geocentric orbit turned around: same shape, perihelion
// rotated by half a turn.
func earth(d float64) (a, e, N, i, w, M float64) {
	return 1.0,
		0.016709 - 1.151e-9*d,
		0,
		0,
		282.9404 + 4.70935e-5*d + 180,
		356.0470 + 0.9856002585*d
}

func mars(d float64) (a, e, N, i, w, M float64) {
	return 1.523688,
		0.093405 + 2.516e-9*d,
		49.5574 + 2.11081e-5*d,
		1.8497 - 1.78e-8*d,
		286.5016 + 2.92961e-5*d,
		18.6021 + 0.5240207766*d
}

func jupiter(d float64) (a, e, N, i, w, M float64) {
	return 5.20256,
		0.048498 + 4.469e-9*d,
		100.4542 + 2.76854e-5*d,
		1.3030 - 1.557e-7*d,
		273.8777 + 1.64505e-5*d,
		19.8950 + 0.0830853001*d
}

func saturn(d float64) (a, e, N, i, w, M float64) {
	return 9.55475,
		0.055546 - 9.499e-9*d,
		113.6634 + 2.38980e-5*d,
		2.4886 - 1.081e-7*d,
		339.3939 + 2.97661e-5*d,
		316.9670 + 0.0334442282*d
}

func uranus(d float64) (a, e, N, i, w, M float64) {
	return 19.18171 - 1.55e-8*d,
		0.047318 + 7.45e-9*d,
		74.0005 + 1.3978e-5*d,
		0.7733 + 1.9e-8*d,
		96.6612 + 3.0565e-5*d,
		142.5905 + 0.011725806*d
}

func neptune(d float64) (a, e, N, i, w, M float64) {
	return 30.05826 + 3.313e-8*d,
		0.008606 + 2.15e-9*d,
		131.7806 + 3.0173e-5*d,
		1.7700 - 2.55e-7*d,
		272.8461 - 6.027e-6*d,
		260.2471 + 0.005995147*d
}

// Perturbations from the mutual pull of Jupiter and Saturn, in degrees.

func jupiterPerturbation(mj, ms float64) (dLon, dLat float64) {
	dLon = -0.332*sind(2*mj-5*ms-67.6) -
		0.056*sind(2*mj-2*ms+21) +
		0.042*sind(3*mj-5*ms+21) -
		0.036*sind(mj-2*ms) +
		0.022*cosd(mj-ms) +
		0.023*sind(2*mj-3*ms+52) -
		0.016*sind(mj-5*ms-69)
	return dLon, 0
}

func saturnPerturbation(mj, ms float64) (dLon, dLat float64) {
	dLon = 0.812*sind(2*mj-5*ms-67.6) -
		0.229*cosd(2*mj-4*ms-2) +
		0.119*sind(mj-2*ms-3) +
		0.046*sind(2*mj-6*ms-69) +
		0.014*sind(mj-3*ms+32)
	dLat = -0.020*cosd(2*mj-4*ms-2) +
		0.018*sind(2*mj-6*ms-49)
	return dLon, dLat
}

func uranusPerturbation(mj, ms, mu float64) (dLon, dLat float64) {
	dLon = 0.040*sind(ms-2*mu+6) +
		0.035*sind(ms-3*mu+33) -
		0.015*sind(mj-mu+20)
	return dLon, 0
}
